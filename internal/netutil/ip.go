package netutil

import (
	"net"
	"sort"
)

// outboundProbe is never contacted: dialing UDP only selects a route.
const outboundProbe = "8.8.8.8:80"

// OutboundIP returns the IPv4 address the OS would use to reach the
// internet, which is usually the address other LAN machines use.
// ok is false when no route exists.
func OutboundIP() (ip string, ok bool) {
	conn, err := net.Dial("udp4", outboundProbe)
	if err != nil {
		return "", false
	}
	defer conn.Close()

	addr, isUDP := conn.LocalAddr().(*net.UDPAddr)
	if !isUDP || addr.IP.IsUnspecified() {
		return "", false
	}
	return addr.IP.String(), true
}

// Interface is one address of an up, non-loopback interface.
type Interface struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
	IPv6    bool   `json:"ipv6" yaml:"ipv6"`
}

// Interfaces lists addresses of every up, non-loopback interface, sorted
// by interface name with IPv4 first. Link-local addresses are skipped.
func Interfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var out []Interface
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.IsLinkLocalUnicast() {
				continue
			}
			out = append(out, Interface{
				Name:    iface.Name,
				Address: ipNet.IP.String(),
				IPv6:    ipNet.IP.To4() == nil,
			})
		}
	}

	sortInterfaces(out)
	return out, nil
}

func sortInterfaces(ifs []Interface) {
	sort.SliceStable(ifs, func(i, j int) bool {
		if ifs[i].Name != ifs[j].Name {
			return ifs[i].Name < ifs[j].Name
		}
		return !ifs[i].IPv6 && ifs[j].IPv6
	})
}
