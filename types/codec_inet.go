package types

import (
	"fmt"
	"net"
)

// PostgreSQL inet/cidr family values on the wire (§4.2).
const (
	pgAFInet  = 2
	pgAFInet6 = 3
)

// inetCodec covers inet and cidr. Binary layout:
// {family:int8, bits:int8, is_cidr:int8, addr_len:int8, addr bytes}.
type inetCodec struct {
	oid     Oid
	network bool // cidr requires a network (host bits beyond /bits are zero)
}

func (c inetCodec) AcceptsOid(o Oid) bool { return o == c.oid }

func (c inetCodec) Encode(v any, format Format, out []byte) ([]byte, error) {
	var ipNet *net.IPNet
	switch n := v.(type) {
	case *net.IPNet:
		ipNet = n
	case net.IP:
		bits := 32
		ip4 := n.To4()
		if ip4 == nil {
			bits = 128
		} else {
			n = ip4
		}
		ipNet = &net.IPNet{IP: n, Mask: net.CIDRMask(bits, bits)}
	default:
		return nil, fmt.Errorf("types: inet codec cannot encode %T", v)
	}

	if format == FormatText {
		ones, _ := ipNet.Mask.Size()
		s := ipNet.IP.String()
		if full, _ := ipNet.Mask.Size(); full != len(ipNet.IP)*8 {
			s = fmt.Sprintf("%s/%d", s, ones)
		}
		return append(out, s...), nil
	}

	ip4 := ipNet.IP.To4()
	family := byte(pgAFInet6)
	addr := ipNet.IP.To16()
	if ip4 != nil {
		family = pgAFInet
		addr = ip4
	}
	ones, _ := ipNet.Mask.Size()
	isCidr := byte(0)
	if c.network {
		isCidr = 1
	}
	out = append(out, family, byte(ones), isCidr, byte(len(addr)))
	return append(out, addr...), nil
}

func (c inetCodec) Decode(data []byte, format Format) (any, error) {
	if format == FormatText {
		ip, ipNet, err := net.ParseCIDR(string(data))
		if err != nil {
			ip = net.ParseIP(string(data))
			if ip == nil {
				return nil, fmt.Errorf("types: invalid inet/cidr text value %q", data)
			}
			return ip, nil
		}
		ipNet.IP = ip
		return ipNet, nil
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("types: inet binary value truncated")
	}
	bits := data[1]
	addrLen := int(data[3])
	if len(data) != 4+addrLen {
		return nil, fmt.Errorf("types: inet binary value length mismatch")
	}
	addr := make([]byte, addrLen)
	copy(addr, data[4:])
	// An inet host address (full-length mask) decodes to net.IP, as in text.
	if data[2] == 0 && int(bits) == addrLen*8 {
		return net.IP(addr), nil
	}
	return &net.IPNet{IP: net.IP(addr), Mask: net.CIDRMask(int(bits), addrLen*8)}, nil
}

var InetCodec Codec = inetCodec{oid: inetOid, network: false}
var CidrCodec Codec = inetCodec{oid: cidrOid, network: true}
