package value

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

var (
	_ msgpack.CustomDecoder = (*Value)(nil)
	_ msgpack.CustomEncoder = Value{}
)

// allocLimit bounds what a length header may preallocate. Longer values
// grow as their elements actually arrive.
const allocLimit = 1024

// DecodeMsgpack reads one value of any shape from dec.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	decoded, err := Decode(dec)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// Decode reads the next value from dec, dispatching on its wire code.
// io.EOF is returned only when the stream ends before the value starts; a
// value cut short reports io.ErrUnexpectedEOF.
func Decode(dec *msgpack.Decoder) (Value, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return Value{}, err
	}
	v, err := decode(dec, c)
	if errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("%w: %v", io.ErrUnexpectedEOF, err)
	}
	return v, err
}

func decode(dec *msgpack.Decoder, c byte) (Value, error) {
	switch {
	case c == msgpcode.Nil:
		return Value{}, dec.DecodeNil()

	case c == msgpcode.False || c == msgpcode.True:
		b, err := dec.DecodeBool()
		return Bool(b), err

	case msgpcode.IsFixedNum(c):
		if int8(c) < 0 {
			i, err := dec.DecodeInt64()
			return Int(i), err
		}
		u, err := dec.DecodeUint64()
		return Uint(u), err

	case c == msgpcode.Uint8 || c == msgpcode.Uint16 || c == msgpcode.Uint32 || c == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		return Uint(u), err

	case c == msgpcode.Int8 || c == msgpcode.Int16 || c == msgpcode.Int32 || c == msgpcode.Int64:
		i, err := dec.DecodeInt64()
		if err != nil {
			return Value{}, err
		}
		// encoders may pick a signed code for a non-negative number
		if i >= 0 {
			return Uint(uint64(i)), nil
		}
		return Int(i), nil

	case c == msgpcode.Float || c == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		return Float(f), err

	case msgpcode.IsString(c):
		s, err := dec.DecodeString()
		return String(s), err

	case msgpcode.IsBin(c):
		b, err := dec.DecodeBytes()
		return Binary(b), err

	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return Value{}, err
		}
		if n < 0 {
			return Value{}, nil
		}
		items := make([]Value, 0, min(n, allocLimit))
		for i := 0; i < n; i++ {
			item, err := Decode(dec)
			if err != nil {
				return Value{}, fmt.Errorf("array item %d: %w", i, err)
			}
			items = append(items, item)
		}
		return Array(items...), nil

	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return Value{}, err
		}
		if n < 0 {
			return Value{}, nil
		}
		pairs := make([]Pair, 0, min(n, allocLimit))
		for i := 0; i < n; i++ {
			var p Pair
			if p.Key, err = Decode(dec); err != nil {
				return Value{}, fmt.Errorf("map key %d: %w", i, err)
			}
			if p.Val, err = Decode(dec); err != nil {
				return Value{}, fmt.Errorf("map value %d: %w", i, err)
			}
			pairs = append(pairs, p)
		}
		return Map(pairs...), nil

	case msgpcode.IsExt(c):
		typ, n, err := dec.DecodeExtHeader()
		if err != nil {
			return Value{}, err
		}
		data, err := readExt(dec, n)
		if err != nil {
			return Value{}, err
		}
		return Ext(typ, data), nil
	}

	return Value{}, fmt.Errorf("value: unknown msgpack code %#x", c)
}

// readExt reads an n-byte payload in bounded chunks, so a forged length
// fails with EOF instead of a huge allocation.
func readExt(dec *msgpack.Decoder, n int) ([]byte, error) {
	data := make([]byte, 0, min(n, allocLimit))
	for len(data) < n {
		chunk := make([]byte, min(n-len(data), 64*allocLimit))
		if err := dec.ReadFull(chunk); err != nil {
			return nil, err
		}
		data = append(data, chunk...)
	}
	return data, nil
}

// EncodeMsgpack writes v with the most compact codes msgpack allows.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch v.kind {
	case KindNil:
		return enc.EncodeNil()
	case KindBool:
		return enc.EncodeBool(v.b)
	case KindInt:
		return enc.EncodeInt(v.i)
	case KindUint:
		return enc.EncodeUint(v.u)
	case KindFloat:
		return enc.EncodeFloat64(v.f)
	case KindString:
		return enc.EncodeString(v.s)
	case KindBinary:
		return enc.EncodeBytes(v.raw)
	case KindArray:
		if err := enc.EncodeArrayLen(len(v.arr)); err != nil {
			return err
		}
		for _, item := range v.arr {
			if err := item.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		if err := enc.EncodeMapLen(len(v.m)); err != nil {
			return err
		}
		for _, p := range v.m {
			if err := p.Key.EncodeMsgpack(enc); err != nil {
				return err
			}
			if err := p.Val.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case KindExt:
		if err := enc.EncodeExtHeader(v.ext, len(v.raw)); err != nil {
			return err
		}
		_, err := enc.Writer().Write(v.raw)
		return err
	}
	return fmt.Errorf("value: cannot encode kind %s", v.kind)
}

// Marshal encodes v to msgpack bytes.
func Marshal(v Value) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes msgpack bytes into a Value.
func Unmarshal(data []byte) (Value, error) {
	var v Value
	err := msgpack.Unmarshal(data, &v)
	return v, err
}
