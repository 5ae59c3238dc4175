package pingen

import "github.com/raisul587/osup/internal/netaddr"

// mod10 reduces a signed value into [0, 10), matching Python's modulo
// (which always returns a non-negative remainder for a positive divisor).
func mod10(v int) int {
	v %= 10
	if v < 0 {
		v += 10
	}
	return v
}

func pin24(m netaddr.MAC) int {
	return int(m.Integer() & 0xFFFFFF)
}

func pin28(m netaddr.MAC) int {
	return int(m.Integer() & 0xFFFFFFF)
}

func pin32(m netaddr.MAC) int {
	return int(m.Integer() & 0xFFFFFFFF)
}

func pinDLink(m netaddr.MAC) int {
	nic := int(m.Integer() & 0xFFFFFF)
	pin := nic ^ 0x55AA55
	pin ^= ((pin & 0xF) << 4) +
		((pin & 0xF) << 8) +
		((pin & 0xF) << 12) +
		((pin & 0xF) << 16) +
		((pin & 0xF) << 20)
	pin %= 10_000_000
	if pin < 1_000_000 {
		pin += (pin%9+1)*1_000_000
	}
	return pin
}

func pinDLink1(m netaddr.MAC) int {
	return pinDLink(m.Add(1))
}

func pinASUS(m netaddr.MAC) int {
	b := m.Bytes()
	sum := int(b[1]) + int(b[2]) + int(b[3]) + int(b[4]) + int(b[5])
	pin := 0
	for i := 0; i < 7; i++ {
		d := (int(b[i%6]) + int(b[5])) % (10 - (i+sum)%7)
		pin = pin*10 + d
	}
	return pin
}

func pinAirocon(m netaddr.MAC) int {
	b := m.Bytes()
	return (int(b[0]+b[1]) % 10) +
		((int(b[5]+b[0]) % 10) * 10) +
		((int(b[4]+b[5]) % 10) * 100) +
		((int(b[3]+b[4]) % 10) * 1000) +
		((int(b[2]+b[3]) % 10) * 10000) +
		((int(b[1]+b[2]) % 10) * 100000) +
		((int(b[0]+b[1]) % 10) * 1000000)
}

func pinMTK(m netaddr.MAC) int {
	b := m.Bytes()
	return ((int(b[0])+int(b[1])+int(b[2])+int(b[3]))%10)*1 +
		((int(b[1])+int(b[2])+int(b[3])+int(b[4]))%10)*10 +
		((int(b[2])+int(b[3])+int(b[4])+int(b[5]))%10)*100 +
		((int(b[3])+int(b[4])+int(b[5])+int(b[0]))%10)*1000 +
		((int(b[4])+int(b[5])+int(b[0])+int(b[1]))%10)*10000 +
		((int(b[5])+int(b[0])+int(b[1])+int(b[2]))%10)*100000 +
		((int(b[0])+int(b[1])+int(b[2])+int(b[3]))%10)*1000000
}

func pinRTK(m netaddr.MAC) int {
	return pinAirocon(m)
}

func pinTPLink(m netaddr.MAC) int {
	b := m.Bytes()
	tri1 := (int(b[0]) + int(b[1]) + int(b[2])) % 10
	tri2 := (int(b[3]) + int(b[4]) + int(b[5])) % 10
	return tri1 + tri2*10 + tri1*100 + tri2*1000 + tri1*10000 + tri2*100000 + tri1*1000000
}

func pinZTE(m netaddr.MAC) int {
	b := m.Bytes()
	return ((int(b[5])+int(b[0])+int(b[1]))%10)*1 +
		((int(b[1])+int(b[2])+int(b[3]))%10)*10 +
		((int(b[2])+int(b[3])+int(b[4]))%10)*100 +
		((int(b[3])+int(b[4])+int(b[5]))%10)*1000 +
		((int(b[0])+int(b[1])+int(b[2]))%10)*10000 +
		((int(b[1])+int(b[2])+int(b[3]))%10)*100000 +
		((int(b[2])+int(b[3])+int(b[4]))%10)*1000000
}

func pinHuawei(m netaddr.MAC) int {
	b := m.Bytes()
	x := int(b[0] ^ b[3])
	y := int(b[1] ^ b[4])
	z := int(b[2] ^ b[5])
	return (x%10)*1 + (y%10)*10 + (z%10)*100 + (x%10)*1000 + (y%10)*10000 + (z%10)*100000 + (x%10)*1000000
}

func pinComtrend(m netaddr.MAC) int {
	b := m.Bytes()
	s := int(b[0]) + int(b[1]) + int(b[2]) - int(b[3]) - int(b[4]) - int(b[5])
	d := mod10(s)
	pin := 0
	for i := 0; i < 7; i++ {
		pin = pin*10 + d
	}
	return pin
}

func pinNetgear(m netaddr.MAC) int {
	b := m.Bytes()
	return ((int(b[0])+int(b[3])+int(b[5]))%10)*1 +
		((int(b[1])+int(b[4])+int(b[2]))%10)*10 +
		((int(b[2])+int(b[5])+int(b[1]))%10)*100 +
		((int(b[3])+int(b[0])+int(b[4]))%10)*1000 +
		((int(b[4])+int(b[1])+int(b[3]))%10)*10000 +
		((int(b[5])+int(b[2])+int(b[0]))%10)*100000 +
		((int(b[0])+int(b[3])+int(b[5]))%10)*1000000
}

// Modern vendor algorithms (2023-2025 models), ported from
// OneShot-Extended/src/wps/modern_vendors.py.

func pinTPLink2023(m netaddr.MAC) int {
	b := m.Bytes()
	return (int(b[0])<<24 + int(b[1])<<16 + int(b[2])<<8 + int(b[3])) % 10_000_000
}

func pinXiaomiAIoT(m netaddr.MAC) int {
	seed := int(m.Integer() & 0xFFFFFF)
	return ((seed * 0x3b) ^ 0x1234567) % 10_000_000
}

func pinASUSAX(m netaddr.MAC) int {
	b := m.Bytes()
	return (int(b[5])<<15 + int(b[1])<<10 + int(b[2])<<5 + int(b[3])) % 10_000_000
}

func pinNetgearNX(m netaddr.MAC) int {
	v := m.Integer()
	return int((v&0xFFFFFF)^(v>>24)) % 10_000_000
}

func pinHuaweiAX(m netaddr.MAC) int {
	b := m.Bytes()
	return ((int(b[0]) + int(b[5])) << 24) % 10_000_000
}

func pinMercusys(m netaddr.MAC) int {
	seed := int(m.Integer() & 0xFFFFFFFF)
	return (seed ^ 0x7A12F64E) % 10_000_000
}
