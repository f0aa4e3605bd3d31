package curve

import (
	"fmt"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

// SEC1 prefixes.
const (
	prefixInfinity     = 0x00
	prefixEven         = 0x02
	prefixOdd          = 0x03
	prefixUncompressed = 0x04
	prefixHybridEven   = 0x06
	prefixHybridOdd    = 0x07
)

// Encode returns the SEC1 encoding of p: 02/03||x when compact, 04||x||y
// otherwise. Infinity encodes as a single zero byte.
func (p *ShortPoint) Encode(compact bool) []byte {
	if p.inf {
		return []byte{prefixInfinity}
	}
	n := p.curve.ByteLen()
	x, _ := p.X().FillBytes(bn.BigEndian, n)
	y := p.Y()
	if compact {
		prefix := byte(prefixEven)
		if y.IsOdd() {
			prefix = prefixOdd
		}
		return append([]byte{prefix}, x...)
	}
	yb, _ := y.FillBytes(bn.BigEndian, n)
	out := make([]byte, 0, 1+2*n)
	out = append(out, prefixUncompressed)
	out = append(out, x...)
	return append(out, yb...)
}

// DecodeShortPoint parses a SEC1 point, including the hybrid 06/07 forms,
// and checks that it lies on the curve.
func (c *Curve) DecodeShortPoint(b []byte) (*ShortPoint, error) {
	if c.shape != Short {
		return nil, fmt.Errorf("failed to decode SEC1 point on %s curve: %w", c.shape, ErrUnsupported)
	}
	n := c.ByteLen()
	switch {
	case len(b) == 1 && b[0] == prefixInfinity:
		return c.shortInf(), nil

	case len(b) == 2*n+1 && (b[0] == prefixUncompressed || b[0] == prefixHybridEven || b[0] == prefixHybridOdd):
		odd := b[len(b)-1]&1 == 1
		if (b[0] == prefixHybridEven && odd) || (b[0] == prefixHybridOdd && !odd) {
			return nil, fmt.Errorf("failed to decode hybrid point: parity does not match prefix: %w", ErrInvalidPoint)
		}
		p, err := c.NewShortPoint(bn.FromBytes(b[1:1+n], bn.BigEndian), bn.FromBytes(b[1+n:], bn.BigEndian))
		if err != nil {
			return nil, fmt.Errorf("failed to decode point: %w", err)
		}
		if !c.validateShort(p) {
			return nil, fmt.Errorf("failed to decode point: not on curve: %w", ErrInvalidPoint)
		}
		return p, nil

	case len(b) == n+1 && (b[0] == prefixEven || b[0] == prefixOdd):
		p, err := c.shortFromX(bn.FromBytes(b[1:], bn.BigEndian), b[0] == prefixOdd)
		if err != nil {
			return nil, fmt.Errorf("failed to decode compressed point: %w", err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("failed to decode %d-byte point with prefix %#x: %w", len(b), prefixOf(b), ErrUnknownPointFormat)
}

func prefixOf(b []byte) byte {
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// EdwardsEncodingLen is the length of an encoded Edwards point: y plus
// one sign bit for x.
func (c *Curve) EdwardsEncodingLen() int {
	return (c.p.BitLen() + 1 + 7) / 8
}

// Encode returns the little-endian y with the parity of x in the top bit
// of the last byte.
func (p *EdwardsPoint) Encode() []byte {
	n := p.curve.EdwardsEncodingLen()
	q := p.normalize()
	out, _ := q.y.FromRed().FillBytes(bn.LittleEndian, n)
	if q.x.FromRed().IsOdd() {
		out[n-1] |= 0x80
	}
	return out
}

// DecodeEdwardsPoint parses the encoding produced by EdwardsPoint.Encode.
// y must be below p.
func (c *Curve) DecodeEdwardsPoint(b []byte) (*EdwardsPoint, error) {
	if c.shape != Edwards {
		return nil, fmt.Errorf("failed to decode Edwards point on %s curve: %w", c.shape, ErrUnsupported)
	}
	n := c.EdwardsEncodingLen()
	if len(b) != n {
		return nil, fmt.Errorf("failed to decode point: want %d bytes, got %d: %w", n, len(b), ErrUnknownPointFormat)
	}
	normed := make([]byte, n)
	copy(normed, b)
	odd := normed[n-1]&0x80 != 0
	normed[n-1] &^= 0x80
	p, err := c.PointFromY(bn.FromBytes(normed, bn.LittleEndian), odd)
	if err != nil {
		return nil, fmt.Errorf("failed to decode point: %w", err)
	}
	return p, nil
}

// Encode encodes p in its shape's native format. compact only affects
// short Weierstrass points.
func (c *Curve) Encode(p Point, compact bool) ([]byte, error) {
	if err := c.own(p); err != nil {
		return nil, err
	}
	switch a := p.(type) {
	case *ShortPoint:
		return a.Encode(compact), nil
	case *MontPoint:
		return a.Encode(), nil
	case *EdwardsPoint:
		return a.Encode(), nil
	}
	return nil, ErrUnsupported
}

// DecodePoint parses a point in the curve shape's native format.
func (c *Curve) DecodePoint(b []byte) (Point, error) {
	var (
		p   Point
		err error
	)
	switch c.shape {
	case Short:
		var sp *ShortPoint
		if sp, err = c.DecodeShortPoint(b); err == nil {
			p = sp
		}
	case Mont:
		var mp *MontPoint
		if mp, err = c.DecodeMontPoint(b); err == nil {
			p = mp
		}
	case Edwards:
		var ep *EdwardsPoint
		if ep, err = c.DecodeEdwardsPoint(b); err == nil {
			p = ep
		}
	default:
		err = ErrUnsupported
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
