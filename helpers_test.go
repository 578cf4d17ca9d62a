package rpc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/RidgeA/pubsub-rpc/transport"
	"github.com/RidgeA/pubsub-rpc/transport/inmemory"
	"github.com/RidgeA/pubsub-rpc/transport/mocks"
)

const (
	echoService = "Echo"
	echoType    = "EchoType"
)

type hello struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

func encode(t *testing.T, h hello) []byte {
	t.Helper()
	data, err := json.Marshal(h)
	require.NoError(t, err)
	return data
}

func decode(t *testing.T, data []byte) hello {
	t.Helper()
	var h hello
	require.NoError(t, json.Unmarshal(data, &h))
	return h
}

func newTestTransport(t *testing.T) transport.Participant {
	t.Helper()
	tp := inmemory.New()
	t.Cleanup(func() { _ = tp.Close() })
	return tp
}

func newEchoService(t *testing.T, opts ...OptionsFunc) (*Participant, *Service) {
	t.Helper()
	return newEchoServiceOn(t, newTestTransport(t), opts...)
}

func newEchoServiceOn(t *testing.T, tp transport.Participant, opts ...OptionsFunc) (*Participant, *Service) {
	t.Helper()
	p, err := NewParticipant(tp, append([]OptionsFunc{SetError(t.Logf)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.RegisterServiceType(echoType))
	s, err := p.CreateService(echoService, echoType)
	require.NoError(t, err)
	return p, s
}

func newRequesterT(t *testing.T, s *Service) Requester {
	t.Helper()
	r, err := s.CreateRequester(s.RequesterParams())
	require.NoError(t, err)
	return r
}

func newReplierT(t *testing.T, s *Service) Replier {
	t.Helper()
	r, err := s.CreateReplier(s.ReplierParams())
	require.NoError(t, err)
	return r
}

func takeRequestEventually(t *testing.T, r Replier) Sample {
	t.Helper()
	var sample Sample
	require.Eventually(t, func() bool {
		s, err := r.TakeRequest()
		if err != nil {
			return false
		}
		sample = s
		return true
	}, time.Second, time.Millisecond)
	return sample
}

func takeReplyEventually(t *testing.T, r Requester) Sample {
	t.Helper()
	var sample Sample
	require.Eventually(t, func() bool {
		s, err := r.TakeReply()
		if err != nil {
			return false
		}
		sample = s
		return true
	}, time.Second, time.Millisecond)
	return sample
}

// mockedParticipant returns a mock whose topic operations run on a real
// in-memory participant, so endpoint steps can be replaced one by one.
func mockedParticipant(t *testing.T) (*gomock.Controller, *mocks.MockParticipant) {
	t.Helper()
	ctrl := gomock.NewController(t)
	backing := inmemory.New()
	t.Cleanup(func() { _ = backing.Close() })

	tp := mocks.NewMockParticipant(ctrl)
	tp.EXPECT().RegisterType(gomock.Any()).DoAndReturn(backing.RegisterType).AnyTimes()
	tp.EXPECT().CreateTopic(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(backing.CreateTopic).AnyTimes()
	tp.EXPECT().CreateContentFilteredTopic(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(backing.CreateContentFilteredTopic).AnyTimes()
	tp.EXPECT().DeleteTopic(gomock.Any()).DoAndReturn(backing.DeleteTopic).AnyTimes()
	return ctrl, tp
}

type mockedEndpoint struct {
	publisher  *mocks.MockPublisher
	writer     *mocks.MockDataWriter
	subscriber *mocks.MockSubscriber
	reader     *mocks.MockDataReader
}

// expectEndpoint records the creation and teardown of one endpoint built
// entirely from mocks. No Write or Take call is expected.
func expectEndpoint(ctrl *gomock.Controller, tp *mocks.MockParticipant) mockedEndpoint {
	e := mockedEndpoint{
		publisher:  mocks.NewMockPublisher(ctrl),
		writer:     mocks.NewMockDataWriter(ctrl),
		subscriber: mocks.NewMockSubscriber(ctrl),
		reader:     mocks.NewMockDataReader(ctrl),
	}

	tp.EXPECT().CreatePublisher(gomock.Any()).Return(e.publisher, nil)
	e.publisher.EXPECT().CreateDataWriter(gomock.Any(), gomock.Any(), gomock.Any()).Return(e.writer, nil)
	e.writer.EXPECT().GUID().Return(uuid.New()).AnyTimes()
	tp.EXPECT().CreateSubscriber(gomock.Any()).Return(e.subscriber, nil)
	e.subscriber.EXPECT().CreateDataReader(gomock.Any(), gomock.Any(), gomock.Any()).Return(e.reader, nil)

	e.publisher.EXPECT().DeleteDataWriter(e.writer).Return(nil)
	e.subscriber.EXPECT().DeleteDataReader(e.reader).Return(nil)
	e.subscriber.EXPECT().DeleteContainedEntities().Return(nil)
	tp.EXPECT().DeleteSubscriber(e.subscriber).Return(nil)
	e.publisher.EXPECT().DeleteContainedEntities().Return(nil)
	tp.EXPECT().DeletePublisher(e.publisher).Return(nil)
	return e
}
