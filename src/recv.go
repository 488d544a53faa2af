package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Process audio input for receiving caller ID.
 *
 * Description:	One Receiver per direction of a channel.
 *
 *			audio samples
 *			  -> Demodulator.FeedSample	bits
 *			  -> BitFramer.FeedBit		bytes
 *			  -> Message.PushByte
 *
 *		Feeding stops as soon as a complete message has been
 *		assembled.  Whatever audio is left over is not consumed
 *		so the caller can tell where the message ended.
 *
 *---------------------------------------------------------------*/

import (
	"encoding/binary"
	"errors"
)

type Receiver struct {
	demod    *Demodulator
	uart     BitFramer
	msg      *Message
	capacity int
	metrics  *Metrics
	in_data  bool
	reported bool
}

// NewReceiver allows messages of up to capacity bytes, including
// header and checksum.
func NewReceiver(standard ModemStandard, samples_per_sec int, capacity int) (*Receiver, error) {
	var d, err = NewDemodulator(standard, samples_per_sec)
	if err != nil {
		return nil, err
	}

	return &Receiver{ //nolint:exhaustruct
		demod:    d,
		msg:      NewMessage(capacity),
		capacity: capacity,
	}, nil
}

func (r *Receiver) SetMetrics(metrics *Metrics) {
	r.metrics = metrics
}

/*-------------------------------------------------------------------
 *
 * Name:        FeedSample
 *
 * Inputs:	normalized_sample	- Range of -1.0 .. +1.0.
 *
 * Returns:	true when the message is complete.  The sample is not
 *		used in that case.
 *
 *--------------------------------------------------------------------*/

func (r *Receiver) FeedSample(normalized_sample float64) bool {
	if r.msg.Complete() {
		return true
	}

	var lb, ok = r.demod.FeedSample(normalized_sample)
	if !ok {
		return false
	}

	if !r.in_data && r.demod.State() == StateData {
		r.in_data = true
		r.metrics.acquired()
	}

	if !lb.Data {
		return false
	}

	var b, got = r.uart.FeedBit(lb.Value)
	if !got {
		return false
	}

	r.metrics.byteReceived()

	if err := r.msg.PushByte(b); err != nil {
		logger.Debug("byte dropped", "byte", b, "err", err)
	}

	return r.msg.Complete()
}

// FeedPCM takes 16 bit linear samples.  It returns how many were used
// and whether the message is complete.
func (r *Receiver) FeedPCM(samples []int16) (int, bool) {
	for i, s := range samples {
		if r.msg.Complete() {
			return i, true
		}

		r.FeedSample(float64(s) / 32767.0)
	}

	return len(samples), r.msg.Complete()
}

// FeedG711 is the same as FeedPCM for G.711 bytes.  CodecLinear is
// taken as 16 bit little endian.  The count returned is in bytes.
func (r *Receiver) FeedG711(codec Codec, data []byte) (int, bool) {
	if codec == CodecLinear {
		var samples = make([]int16, len(data)/2)
		for i := range samples {
			samples[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
		}

		var n, done = r.FeedPCM(samples)

		return 2 * n, done
	}

	return r.FeedPCM(ExpandG711(codec, data))
}

func (r *Receiver) Done() bool {
	return r.msg.Complete()
}

// Message as received so far.
func (r *Receiver) Message() *Message {
	return r.msg
}

func (r *Receiver) State() AcquisitionState {
	return r.demod.State()
}

/*-------------------------------------------------------------------
 *
 * Name:        Result
 *
 * Purpose:     Validate the message.  No more bytes will be accepted.
 *
 * Returns:	The message and the result of Message.Validate.
 *
 *--------------------------------------------------------------------*/

func (r *Receiver) Result() (*Message, error) {
	var err = r.msg.Validate()

	if !r.reported {
		r.reported = true

		if err != nil {
			r.metrics.messageInvalid(invalidReason(err))
		}
	}

	return r.msg, err
}

// Decode validates and takes apart the message.
func (r *Receiver) Decode() ([]Field, error) {
	var reported = r.reported

	var msg, err = r.Result()
	if err != nil {
		return nil, err
	}

	var fields, perr = msg.Fields()

	if !reported {
		r.metrics.messageValid(msg, fields)

		if perr != nil {
			r.metrics.messageInvalid("parse")
		}

		logger.Info("caller id received", "type", MessageTypeName(msg.Type()), "fields", len(fields))
	}

	return fields, perr
}

// Reset gets ready for another message on the same channel.
func (r *Receiver) Reset() {
	r.demod.Reset()
	r.uart.Reset()
	r.msg = NewMessage(r.capacity)
	r.in_data = false
	r.reported = false
}

func invalidReason(err error) string {
	switch {
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrMessageType):
		return "type"
	case errors.Is(err, ErrChecksum):
		return "checksum"
	default:
		return "other"
	}
}
