package transport

import "time"

type (
	// WriteParams is passed to DataWriter.Write. SampleIdentity is filled in by
	// the writer; RelatedSampleIdentity is read from the caller.
	WriteParams struct {
		SampleIdentity        SampleIdentity
		RelatedSampleIdentity SampleIdentity
	}

	SampleInfo struct {
		ValidData             bool
		SampleIdentity        SampleIdentity
		RelatedSampleIdentity SampleIdentity
		SourceTimestamp       time.Time
	}

	Sample struct {
		Payload []byte
		Info    SampleInfo
	}

	MatchedStatus struct {
		TotalCount         int
		CurrentCount       int
		CurrentCountChange int
	}

	WriterListener interface {
		OnPublicationMatched(DataWriter, MatchedStatus)
	}

	ReaderListener interface {
		OnDataAvailable(DataReader)
		OnSubscriptionMatched(DataReader, MatchedStatus)
	}
)

// NewSample copies payload so the sample does not alias the writer's buffer.
func NewSample(payload []byte, params WriteParams, ts time.Time) Sample {
	data := make([]byte, len(payload))
	copy(data, payload)
	return Sample{
		Payload: data,
		Info: SampleInfo{
			ValidData:             true,
			SampleIdentity:        params.SampleIdentity,
			RelatedSampleIdentity: params.RelatedSampleIdentity,
			SourceTimestamp:       ts,
		},
	}
}
