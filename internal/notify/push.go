package notify

import (
	"context"

	"firebase.google.com/go/v4/messaging"

	"github.com/snipvid/backend/internal/models"
	"github.com/snipvid/backend/internal/repositories"
)

// FCMPusher delivers notifications through Firebase Cloud Messaging.
type FCMPusher struct {
	client *messaging.Client
	users  repositories.UserRepository
}

// NewFCMPusher creates an FCMPusher
func NewFCMPusher(client *messaging.Client, users repositories.UserRepository) *FCMPusher {
	return &FCMPusher{client: client, users: users}
}

// Push sends the notification to the recipient's registered device.
// Recipients with no device token are skipped silently.
func (p *FCMPusher) Push(ctx context.Context, notification *models.Notification) error {
	recipient, err := p.users.GetUserByID(notification.RecipientID)
	if err != nil {
		return err
	}
	if recipient.DeviceToken == "" {
		return nil
	}

	msg := &messaging.Message{
		Token: recipient.DeviceToken,
		Notification: &messaging.Notification{
			Body: notification.Message,
		},
		Data: map[string]string{
			"type":        notification.Type,
			"target_id":   notification.TargetID,
			"target_type": notification.TargetType,
		},
	}
	_, err = p.client.Send(ctx, msg)
	return err
}
