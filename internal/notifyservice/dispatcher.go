package notifyservice

import (
	"context"
	"encoding/json"

	"github.com/sushihentaime/blogfeed/internal/common"
)

func NewBrokerDispatcher(mb common.MessageProducer) *BrokerDispatcher {
	return &BrokerDispatcher{mb: mb}
}

// SendNewPostNotification publishes one post.created event carrying every recipient.
func (d *BrokerDispatcher) SendNewPostNotification(ctx context.Context, eventID string, author common.EventAuthor, post common.EventPost, recipients []string) error {
	msg, err := json.Marshal(common.NewPostEvent{
		EventID:    eventID,
		Author:     author,
		Post:       post,
		Recipients: recipients,
	})
	if err != nil {
		return err
	}

	return d.mb.Publish(ctx, msg, common.PostCreatedKey, common.PostExchange, common.WithMessageID(eventID))
}
