// Package nats provides a NATS transport for jsonfrag documents.
// The fragments of an encoded document are coalesced into fixed size chunks
// and streamed, so the sender never joins the whole document in memory.
package nats

import (
	"io"
	"iter"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/RobertWHurst/jsonfrag"
)

// SendTimeout is the maximum time to wait for a send acknowledgment.
const SendTimeout = 5 * time.Second

// ChunkSize is the maximum payload of a single chunk.
const ChunkSize = 1024 * 16

// ChunkTimeout is how long a receiver waits for the next chunk of a stream.
const ChunkTimeout = 5 * time.Minute

const subjectPrefix = "jsonfrag"

// NatsTransport implements jsonfrag.Transport using NATS as the message broker.
type NatsTransport struct {
	NatsConnection *nats.Conn

	logger          log.Logger
	mu              sync.Mutex
	subscriptions   []*nats.Subscription
	subscriptionErr error
}

// Send opens a stream. The receiver answers with the subject the chunks are
// published on.
type Send struct {
	Subject string `msgpack:"subject"`
	Size    int    `msgpack:"size"`
}

// SendAck is the acknowledgment response containing the data subject for streaming.
type SendAck struct {
	DataSubject string `msgpack:"dataSubject"`
}

// Chunk represents a piece of streamed data with sequencing information.
type Chunk struct {
	Index int    `msgpack:"index"`
	Data  []byte `msgpack:"data,omitempty"`
	Error string `msgpack:"error,omitempty"`
	IsEOF bool   `msgpack:"isEof,omitempty"`
}

var _ jsonfrag.Transport = &NatsTransport{}

// NewNatsTransport creates a new NATS transport using the provided connection.
// A nil logger discards all log output.
func NewNatsTransport(natsConnection *nats.Conn, logger log.Logger) *NatsTransport {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &NatsTransport{
		NatsConnection: natsConnection,
		logger:         log.With(logger, "component", "nats-transport"),
	}
}

func (t *NatsTransport) Send(subject string, frags *jsonfrag.Fragments) error {
	if err := t.Err(); err != nil {
		return err
	}

	sendBuf, err := msgpack.Marshal(&Send{
		Subject: subject,
		Size:    frags.Size(),
	})
	if err != nil {
		return errors.Wrap(err, "marshal send")
	}

	natsSubject := namespace(subjectPrefix, subject)
	sendAckMsg, err := t.NatsConnection.Request(natsSubject, sendBuf, SendTimeout)
	if err != nil {
		return errors.Wrapf(err, "request stream on %s", natsSubject)
	}

	var sendAck SendAck
	if err := msgpack.Unmarshal(sendAckMsg.Data, &sendAck); err != nil {
		return errors.Wrap(err, "unmarshal send ack")
	}

	chunks := 0
	err = chunkFragments(frags.All(), ChunkSize, func(chunk *Chunk) error {
		chunkBuf, err := msgpack.Marshal(chunk)
		if err != nil {
			return err
		}
		chunks++
		return t.NatsConnection.Publish(sendAck.DataSubject, chunkBuf)
	})
	if err != nil {
		return errors.Wrapf(err, "stream to %s", sendAck.DataSubject)
	}

	level.Debug(t.logger).Log("msg", "sent document", "subject", natsSubject, "bytes", frags.Size(), "chunks", chunks)
	return nil
}

// chunkFragments packs parts into chunks of at most size bytes and passes
// each to emit in order. The last chunk has IsEOF set and may be empty.
// emit must not retain chunk.Data after it returns.
func chunkFragments(parts iter.Seq[string], size int, emit func(chunk *Chunk) error) error {
	if size <= 0 {
		size = ChunkSize
	}
	buf := make([]byte, 0, size)
	index := 0

	flush := func(isEOF bool) error {
		if err := emit(&Chunk{Index: index, Data: buf, IsEOF: isEOF}); err != nil {
			return err
		}
		index++
		buf = buf[:0]
		return nil
	}

	for part := range parts {
		for len(part) > 0 {
			n := min(size-len(buf), len(part))
			buf = append(buf, part[:n]...)
			part = part[n:]
			if len(buf) == size {
				if err := flush(false); err != nil {
					return err
				}
			}
		}
	}
	return flush(true)
}

type ErrReader struct {
	err error
}

func (r *ErrReader) Read(p []byte) (n int, err error) {
	return 0, r.err
}

// Handle receives documents sent on subject. Every subscriber gets a copy.
func (t *NatsTransport) Handle(subject string, handler func(subject string, reader io.Reader)) {
	natsSubject := namespace(subjectPrefix, subject)
	subscription, err := t.NatsConnection.Subscribe(natsSubject, t.receive(subject, natsSubject, handler))
	t.recordSubscription(natsSubject, subscription, err)
}

// HandleQueue is like Handle, but each document is delivered to only one of
// the processes handling subject.
func (t *NatsTransport) HandleQueue(subject string, handler func(subject string, reader io.Reader)) {
	natsSubject := namespace(subjectPrefix, subject)
	subscription, err := t.NatsConnection.QueueSubscribe(natsSubject, natsSubject, t.receive(subject, natsSubject, handler))
	t.recordSubscription(natsSubject, subscription, err)
}

func (t *NatsTransport) recordSubscription(natsSubject string, subscription *nats.Subscription, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.subscriptionErr = err
		level.Warn(t.logger).Log("msg", "subscribe failed", "subject", natsSubject, "err", err)
		return
	}
	t.subscriptions = append(t.subscriptions, subscription)
}

// Err returns the last subscription error, if any. Send fails with it.
func (t *NatsTransport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.subscriptionErr
}

func (t *NatsTransport) receive(subject, natsSubject string, handler func(subject string, reader io.Reader)) nats.MsgHandler {
	return func(natsMsg *nats.Msg) {
		var send Send
		if err := msgpack.Unmarshal(natsMsg.Data, &send); err != nil {
			handler(subject, &ErrReader{err: errors.Wrap(err, "unmarshal send")})
			return
		}

		dataSubject := nats.NewInbox()

		ackBuf, err := msgpack.Marshal(&SendAck{DataSubject: dataSubject})
		if err != nil {
			handler(send.Subject, &ErrReader{err: err})
			return
		}

		dataSubscription, err := t.NatsConnection.SubscribeSync(dataSubject)
		if err != nil {
			handler(send.Subject, &ErrReader{err: err})
			return
		}

		if err := natsMsg.Respond(ackBuf); err != nil {
			dataSubscription.Unsubscribe()
			handler(send.Subject, &ErrReader{err: err})
			return
		}

		pr, pw := io.Pipe()

		go func() {
			defer dataSubscription.Unsubscribe()
			err := receiveChunks(func() ([]byte, error) {
				msg, err := dataSubscription.NextMsg(ChunkTimeout)
				if err != nil {
					return nil, err
				}
				return msg.Data, nil
			}, pw)
			if err != nil {
				level.Warn(t.logger).Log("msg", "stream failed", "subject", natsSubject, "err", err)
			}
		}()

		handler(send.Subject, pr)
	}
}

// receiveChunks copies chunk payloads from next into pw until the EOF chunk.
// pw is always closed, with the error that stopped the stream if any.
func receiveChunks(next func() ([]byte, error), pw *io.PipeWriter) error {
	err := copyChunks(next, pw)
	pw.CloseWithError(err)
	return err
}

func copyChunks(next func() ([]byte, error), w io.Writer) error {
	for index := 0; ; index++ {
		data, err := next()
		if err != nil {
			return err
		}

		var chunk Chunk
		if err := msgpack.Unmarshal(data, &chunk); err != nil {
			return errors.Wrap(err, "unmarshal chunk")
		}

		if chunk.Error != "" {
			return errors.New(chunk.Error)
		}
		if chunk.Index != index {
			return errors.Errorf("chunk %d received out of order, expected %d", chunk.Index, index)
		}

		if _, err := w.Write(chunk.Data); err != nil {
			return err
		}

		if chunk.IsEOF {
			return nil
		}
	}
}

func (t *NatsTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var err error
	for _, subscription := range t.subscriptions {
		if e := subscription.Unsubscribe(); e != nil {
			err = e
		}
	}
	t.subscriptions = nil
	return err
}
