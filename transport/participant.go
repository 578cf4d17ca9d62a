// Package transport defines the boundary between the request/reply layer and
// the publish/subscribe substrate it is built on: topics, content filtered
// topics, publishers, subscribers, typed writers and readers.
//
// Substrates live in sub-packages (inmemory, amqp, nats).
package transport

import "github.com/google/uuid"

//go:generate mockgen -destination=mocks/transport.go -package=mocks . Participant,Publisher,Subscriber,DataWriter,DataReader,Topic,ContentFilteredTopic

type (
	TopicDescription interface {
		Name() string
		TypeName() string
	}

	Topic interface {
		TopicDescription
	}

	// ContentFilteredTopic is a view of a related topic that only delivers
	// samples accepted by its filter.
	ContentFilteredTopic interface {
		TopicDescription
		RelatedTopic() Topic
		Filter() *IdentityFilter
	}

	Participant interface {
		RegisterType(typeName string) error
		CreateTopic(name, typeName string, qos TopicQos) (Topic, error)
		CreateContentFilteredTopic(name string, related Topic, filter *IdentityFilter) (ContentFilteredTopic, error)
		DeleteTopic(TopicDescription) error
		CreatePublisher(PublisherQos) (Publisher, error)
		DeletePublisher(Publisher) error
		CreateSubscriber(SubscriberQos) (Subscriber, error)
		DeleteSubscriber(Subscriber) error
		Close() error
	}

	Publisher interface {
		CreateDataWriter(topic Topic, qos DataWriterQos, listener WriterListener) (DataWriter, error)
		DeleteDataWriter(DataWriter) error
		DeleteContainedEntities() error
	}

	Subscriber interface {
		CreateDataReader(topic TopicDescription, qos DataReaderQos, listener ReaderListener) (DataReader, error)
		DeleteDataReader(DataReader) error
		DeleteContainedEntities() error
	}

	DataWriter interface {
		GUID() uuid.UUID
		Topic() Topic
		// NextSampleIdentity is the identity the next Write will assign. It
		// must be exact while a single goroutine writes.
		NextSampleIdentity() SampleIdentity
		// Write publishes payload and stores the assigned identity in params.
		Write(payload []byte, params *WriteParams) error
	}

	DataReader interface {
		GUID() uuid.UUID
		TopicDescription() TopicDescription
		// TakeNextSample never blocks; it returns ErrNoData when nothing is pending.
		TakeNextSample() (Sample, error)
		// Take removes up to max samples (all when max <= 0).
		Take(max int) ([]Sample, error)
	}
)

// RelatedTopicOf resolves the topic samples are actually published on.
func RelatedTopicOf(d TopicDescription) TopicDescription {
	if cft, ok := d.(ContentFilteredTopic); ok {
		return cft.RelatedTopic()
	}
	return d
}
