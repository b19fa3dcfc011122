package fb303

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/apache/thrift/lib/go/thrift"

	"scribe-monitor/internal/domain/model"
	"scribe-monitor/internal/domain/repository"
)

const (
	methodGetStatus   = "getStatus"
	methodGetCounters = "getCounters"
)

// Config describes where the fb303 endpoint lives.
type Config struct {
	Host string
	Port int
	// ConnectTimeout bounds the TCP connect. Zero means no timeout.
	ConnectTimeout time.Duration
}

// Dialer opens framed binary Thrift connections to an fb303 service.
type Dialer struct {
	hostPort string
	conf     *thrift.TConfiguration
}

// NewDialer returns a Dialer for the given endpoint.
func NewDialer(cfg Config) *Dialer {
	return &Dialer{
		hostPort: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		conf: &thrift.TConfiguration{
			ConnectTimeout: cfg.ConnectTimeout,
		},
	}
}

// Dial implements repository.StatusDialer.
func (d *Dialer) Dial(ctx context.Context) (repository.StatusConn, error) {
	sock := thrift.NewTSocketConf(d.hostPort, d.conf)
	trans := thrift.NewTFramedTransportConf(sock, d.conf)
	if err := trans.Open(); err != nil {
		trans.Close()
		return nil, fmt.Errorf("failed to open thrift socket %s: %w", d.hostPort, err)
	}

	prot := thrift.NewTBinaryProtocolConf(trans, d.conf)
	return NewConn(trans, prot, prot), nil
}

// Conn is an fb303 client over an open transport.
type Conn struct {
	trans thrift.TTransport
	iprot thrift.TProtocol
	oprot thrift.TProtocol
	seqID int32
}

// NewConn wraps already opened protocols. trans is closed by Close.
func NewConn(trans thrift.TTransport, iprot, oprot thrift.TProtocol) *Conn {
	return &Conn{
		trans: trans,
		iprot: iprot,
		oprot: oprot,
	}
}

// GetStatus calls fb303 getStatus.
func (c *Conn) GetStatus(ctx context.Context) (model.RemoteStatus, error) {
	var status model.RemoteStatus
	found := false

	err := c.call(ctx, methodGetStatus, func(ctx context.Context, fieldType thrift.TType) error {
		if fieldType != thrift.I32 {
			return c.iprot.Skip(ctx, fieldType)
		}
		v, err := c.iprot.ReadI32(ctx)
		if err != nil {
			return err
		}
		status = model.RemoteStatus(v)
		found = true
		return nil
	})
	if err != nil {
		return model.RemoteStatusDead, err
	}
	if !found {
		return model.RemoteStatusDead, missingResult(methodGetStatus)
	}
	return status, nil
}

// GetCounters calls fb303 getCounters.
func (c *Conn) GetCounters(ctx context.Context) (map[string]int64, error) {
	var counters map[string]int64

	err := c.call(ctx, methodGetCounters, func(ctx context.Context, fieldType thrift.TType) error {
		if fieldType != thrift.MAP {
			return c.iprot.Skip(ctx, fieldType)
		}
		m, err := c.readCounterMap(ctx)
		if err != nil {
			return err
		}
		counters = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	if counters == nil {
		return nil, missingResult(methodGetCounters)
	}
	return counters, nil
}

// Close releases the transport.
func (c *Conn) Close() error {
	if c.trans == nil {
		return nil
	}
	return c.trans.Close()
}

// call sends an argument-less request and decodes the reply struct. The
// success value is field 0; readSuccess is invoked with its wire type.
func (c *Conn) call(ctx context.Context, method string, readSuccess func(context.Context, thrift.TType) error) error {
	c.seqID++
	seqID := c.seqID

	if err := c.writeRequest(ctx, method, seqID); err != nil {
		return fmt.Errorf("%s: failed to send request: %w", method, err)
	}

	name, msgType, replySeq, err := c.iprot.ReadMessageBegin(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to read reply: %w", method, err)
	}
	if msgType == thrift.EXCEPTION {
		exc := thrift.NewTApplicationException(thrift.UNKNOWN_APPLICATION_EXCEPTION, "")
		if err := exc.Read(ctx, c.iprot); err != nil {
			return fmt.Errorf("%s: failed to read exception: %w", method, err)
		}
		c.iprot.ReadMessageEnd(ctx)
		return fmt.Errorf("%s: remote exception: %w", method, exc)
	}
	if name != method {
		return thrift.NewTApplicationException(thrift.WRONG_METHOD_NAME, method+": wrong method name "+name)
	}
	if replySeq != seqID {
		return thrift.NewTApplicationException(thrift.BAD_SEQUENCE_ID, method+": out of order sequence response")
	}

	if _, err := c.iprot.ReadStructBegin(ctx); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	for {
		_, fieldType, fieldID, err := c.iprot.ReadFieldBegin(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
		if fieldType == thrift.STOP {
			break
		}
		if fieldID == 0 {
			err = readSuccess(ctx, fieldType)
		} else {
			err = c.iprot.Skip(ctx, fieldType)
		}
		if err != nil {
			return fmt.Errorf("%s: field %d: %w", method, fieldID, err)
		}
		if err := c.iprot.ReadFieldEnd(ctx); err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
	}
	if err := c.iprot.ReadStructEnd(ctx); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if err := c.iprot.ReadMessageEnd(ctx); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (c *Conn) writeRequest(ctx context.Context, method string, seqID int32) error {
	if err := c.oprot.WriteMessageBegin(ctx, method, thrift.CALL, seqID); err != nil {
		return err
	}
	if err := c.oprot.WriteStructBegin(ctx, method+"_args"); err != nil {
		return err
	}
	if err := c.oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	if err := c.oprot.WriteStructEnd(ctx); err != nil {
		return err
	}
	if err := c.oprot.WriteMessageEnd(ctx); err != nil {
		return err
	}
	return c.oprot.Flush(ctx)
}

func (c *Conn) readCounterMap(ctx context.Context) (map[string]int64, error) {
	keyType, valueType, size, err := c.iprot.ReadMapBegin(ctx)
	if err != nil {
		return nil, err
	}
	if keyType != thrift.STRING || valueType != thrift.I64 {
		return nil, fmt.Errorf("unexpected counter map types %v/%v", keyType, valueType)
	}

	counters := make(map[string]int64, size)
	for i := 0; i < size; i++ {
		k, err := c.iprot.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		v, err := c.iprot.ReadI64(ctx)
		if err != nil {
			return nil, err
		}
		counters[k] = v
	}
	if err := c.iprot.ReadMapEnd(ctx); err != nil {
		return nil, err
	}
	return counters, nil
}

func missingResult(method string) error {
	return thrift.NewTApplicationException(thrift.MISSING_RESULT, method+" failed: unknown result")
}
