package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/questforge/questforge-api/internal/models"
)

type Notifier interface {
	NotifyBadgeEarned(user models.User, badge models.Badge) error
	NotifyLevelUp(user models.User, level int) error
	NotifyAchievementUnlocked(user models.User, achievement models.Achievement) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifyBadgeEarned(user models.User, badge models.Badge) error {
	message := fmt.Sprintf("🏅 **%s** earned the **%s** badge!\n%s",
		user.Username, badge.Name, badge.Description)
	if badge.XPBonus > 0 {
		message += fmt.Sprintf("\n**Bonus:** +%d XP", badge.XPBonus)
	}
	return n.send(message)
}

func (n *DiscordNotifier) NotifyLevelUp(user models.User, level int) error {
	return n.send(fmt.Sprintf("🎉 **%s** reached level %d!", user.Username, level))
}

func (n *DiscordNotifier) NotifyAchievementUnlocked(user models.User, achievement models.Achievement) error {
	return n.send(fmt.Sprintf("🏆 **%s** unlocked the achievement **%s**!\n%s",
		user.Username, achievement.Name, achievement.Description))
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
