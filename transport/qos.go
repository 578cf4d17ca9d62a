package transport

import "time"

type Reliability int

const (
	BestEffort Reliability = iota
	Reliable
)

const DefaultMaxBlockingTime = 100 * time.Millisecond

func (r Reliability) String() string {
	switch r {
	case BestEffort:
		return "best_effort"
	case Reliable:
		return "reliable"
	default:
		return "unknown"
	}
}

type (
	DataWriterQos struct {
		Reliability Reliability
		// MaxBlockingTime bounds how long Write may wait for resources.
		MaxBlockingTime time.Duration
		// HistoryDepth is the number of samples kept for delivery, 0 for unlimited.
		HistoryDepth int
	}

	DataReaderQos struct {
		Reliability  Reliability
		HistoryDepth int
	}

	PublisherQos struct {
		Partition string
	}

	SubscriberQos struct {
		Partition string
	}

	TopicQos struct{}
)

func DefaultDataWriterQos() DataWriterQos {
	return DataWriterQos{
		Reliability:     Reliable,
		MaxBlockingTime: DefaultMaxBlockingTime,
	}
}

func DefaultDataReaderQos() DataReaderQos {
	return DataReaderQos{
		Reliability: Reliable,
	}
}
