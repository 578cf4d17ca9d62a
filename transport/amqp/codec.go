package amqp

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/RidgeA/pubsub-rpc/transport"
)

func routingKey(related transport.SampleIdentity) string {
	if related.IsUnknown() {
		return unknownRoutingKey
	}
	return related.WriterGUID.String()
}

// bindingKey narrows a reply filtered reader to the replies of one writer.
func bindingKey(d transport.TopicDescription) string {
	if cft, ok := d.(transport.ContentFilteredTopic); ok && !cft.Filter().IsMatchAll() {
		return cft.Filter().Writer().String()
	}
	return anyRoutingKey
}

func toPublishing(payload []byte, typeName, appID string, params transport.WriteParams, reliable bool, ts time.Time) amqp.Publishing {
	mode := amqp.Transient
	if reliable {
		mode = amqp.Persistent
	}

	msg := amqp.Publishing{
		DeliveryMode: mode,
		MessageId:    params.SampleIdentity.String(),
		Type:         typeName,
		AppId:        appID,
		Timestamp:    ts,
		Body:         payload,
	}
	if !params.RelatedSampleIdentity.IsUnknown() {
		msg.CorrelationId = params.RelatedSampleIdentity.String()
	}
	return msg
}

func fromDelivery(d amqp.Delivery) (transport.Sample, error) {
	id, err := transport.ParseSampleIdentity(d.MessageId)
	if err != nil {
		return transport.Sample{}, fmt.Errorf("message id: %w", err)
	}
	related, err := transport.ParseSampleIdentity(d.CorrelationId)
	if err != nil {
		return transport.Sample{}, fmt.Errorf("correlation id: %w", err)
	}

	return transport.Sample{
		Payload: d.Body,
		Info: transport.SampleInfo{
			ValidData:             true,
			SampleIdentity:        id,
			RelatedSampleIdentity: related,
			SourceTimestamp:       d.Timestamp,
		},
	}, nil
}
