package dictionaries

import "github.com/vitalvas/radkit/pkg/dictionary"

// StandardAttributes holds the top-level attributes of RFC 2865, 2866, 2867,
// 2868, 2869, 3162, 3576, 4072, 4372, 4675, 4818 and 4849.
var StandardAttributes = []*dictionary.AttributeTemplate{
	// RFC 2865
	std(1, "User-Name", dictionary.DataTypeString),
	std(2, "User-Password", dictionary.DataTypeString, encrypted(dictionary.EncryptUserPassword)),
	std(3, "CHAP-Password", dictionary.DataTypeOctets),
	std(4, "NAS-IP-Address", dictionary.DataTypeIPAddr),
	std(5, "NAS-Port", dictionary.DataTypeInteger),
	std(6, "Service-Type", dictionary.DataTypeInteger, values(map[string]uint32{
		"Login-User":              1,
		"Framed-User":             2,
		"Callback-Login-User":     3,
		"Callback-Framed-User":    4,
		"Outbound-User":           5,
		"Administrative-User":     6,
		"NAS-Prompt-User":         7,
		"Authenticate-Only":       8,
		"Callback-NAS-Prompt":     9,
		"Call-Check":              10,
		"Callback-Administrative": 11,
		"Authorize-Only":          17,
		"Framed-Management":       18,
	})),
	std(7, "Framed-Protocol", dictionary.DataTypeInteger, values(map[string]uint32{
		"PPP":               1,
		"SLIP":              2,
		"ARAP":              3,
		"Gandalf-SLML":      4,
		"Xylogics-IPX-SLIP": 5,
		"X.75-Synchronous":  6,
	})),
	std(8, "Framed-IP-Address", dictionary.DataTypeIPAddr),
	std(9, "Framed-IP-Netmask", dictionary.DataTypeIPAddr),
	std(10, "Framed-Routing", dictionary.DataTypeInteger, values(map[string]uint32{
		"None":             0,
		"Broadcast":        1,
		"Listen":           2,
		"Broadcast-Listen": 3,
	})),
	std(11, "Filter-Id", dictionary.DataTypeString),
	std(12, "Framed-MTU", dictionary.DataTypeInteger),
	std(13, "Framed-Compression", dictionary.DataTypeInteger, values(map[string]uint32{
		"None":                   0,
		"Van-Jacobson-TCP-IP":    1,
		"IPX-Header-Compression": 2,
		"Stac-LZS":               3,
	})),
	std(14, "Login-IP-Host", dictionary.DataTypeIPAddr),
	std(15, "Login-Service", dictionary.DataTypeInteger, values(map[string]uint32{
		"Telnet":          0,
		"Rlogin":          1,
		"TCP-Clear":       2,
		"PortMaster":      3,
		"LAT":             4,
		"X25-PAD":         5,
		"X25-T3POS":       6,
		"TCP-Clear-Quiet": 8,
	})),
	std(16, "Login-TCP-Port", dictionary.DataTypeInteger, values(map[string]uint32{
		"Telnet": 23,
		"Rlogin": 513,
		"Rsh":    514,
	})),
	std(18, "Reply-Message", dictionary.DataTypeString),
	std(19, "Callback-Number", dictionary.DataTypeString),
	std(20, "Callback-Id", dictionary.DataTypeString),
	std(22, "Framed-Route", dictionary.DataTypeString),
	std(23, "Framed-IPX-Network", dictionary.DataTypeIPAddr),
	std(24, "State", dictionary.DataTypeOctets),
	std(25, "Class", dictionary.DataTypeOctets),
	std(26, "Vendor-Specific", dictionary.DataTypeVSA),
	std(27, "Session-Timeout", dictionary.DataTypeInteger),
	std(28, "Idle-Timeout", dictionary.DataTypeInteger),
	std(29, "Termination-Action", dictionary.DataTypeInteger, values(map[string]uint32{
		"Default":        0,
		"RADIUS-Request": 1,
	})),
	std(30, "Called-Station-Id", dictionary.DataTypeString),
	std(31, "Calling-Station-Id", dictionary.DataTypeString),
	std(32, "NAS-Identifier", dictionary.DataTypeString),
	std(33, "Proxy-State", dictionary.DataTypeOctets),
	std(34, "Login-LAT-Service", dictionary.DataTypeString),
	std(35, "Login-LAT-Node", dictionary.DataTypeString),
	std(36, "Login-LAT-Group", dictionary.DataTypeOctets),
	std(37, "Framed-AppleTalk-Link", dictionary.DataTypeInteger),
	std(38, "Framed-AppleTalk-Network", dictionary.DataTypeInteger),
	std(39, "Framed-AppleTalk-Zone", dictionary.DataTypeString),

	// RFC 2866
	std(40, "Acct-Status-Type", dictionary.DataTypeInteger, values(map[string]uint32{
		"Start":              1,
		"Stop":               2,
		"Alive":              3,
		"Interim-Update":     3,
		"Accounting-On":      7,
		"Accounting-Off":     8,
		"Tunnel-Start":       9,
		"Tunnel-Stop":        10,
		"Tunnel-Reject":      11,
		"Tunnel-Link-Start":  12,
		"Tunnel-Link-Stop":   13,
		"Tunnel-Link-Reject": 14,
		"Failed":             15,
	})),
	std(41, "Acct-Delay-Time", dictionary.DataTypeInteger),
	std(42, "Acct-Input-Octets", dictionary.DataTypeInteger),
	std(43, "Acct-Output-Octets", dictionary.DataTypeInteger),
	std(44, "Acct-Session-Id", dictionary.DataTypeString),
	std(45, "Acct-Authentic", dictionary.DataTypeInteger, values(map[string]uint32{
		"RADIUS":   1,
		"Local":    2,
		"Remote":   3,
		"Diameter": 4,
	})),
	std(46, "Acct-Session-Time", dictionary.DataTypeInteger),
	std(47, "Acct-Input-Packets", dictionary.DataTypeInteger),
	std(48, "Acct-Output-Packets", dictionary.DataTypeInteger),
	std(49, "Acct-Terminate-Cause", dictionary.DataTypeInteger, values(map[string]uint32{
		"User-Request":             1,
		"Lost-Carrier":             2,
		"Lost-Service":             3,
		"Idle-Timeout":             4,
		"Session-Timeout":          5,
		"Admin-Reset":              6,
		"Admin-Reboot":             7,
		"Port-Error":               8,
		"NAS-Error":                9,
		"NAS-Request":              10,
		"NAS-Reboot":               11,
		"Port-Unneeded":            12,
		"Port-Preempted":           13,
		"Port-Suspended":           14,
		"Service-Unavailable":      15,
		"Callback":                 16,
		"User-Error":               17,
		"Host-Request":             18,
		"Supplicant-Restart":       19,
		"Reauthentication-Failure": 20,
		"Port-Reinit":              21,
		"Port-Disabled":            22,
	})),
	std(50, "Acct-Multi-Session-Id", dictionary.DataTypeString),
	std(51, "Acct-Link-Count", dictionary.DataTypeInteger),

	// RFC 2869
	std(52, "Acct-Input-Gigawords", dictionary.DataTypeInteger),
	std(53, "Acct-Output-Gigawords", dictionary.DataTypeInteger),
	std(55, "Event-Timestamp", dictionary.DataTypeInteger),

	// RFC 4675
	std(56, "Egress-VLANID", dictionary.DataTypeInteger),
	std(57, "Ingress-Filters", dictionary.DataTypeInteger, values(map[string]uint32{
		"Enabled":  1,
		"Disabled": 2,
	})),
	std(58, "Egress-VLAN-Name", dictionary.DataTypeString),
	std(59, "User-Priority-Table", dictionary.DataTypeOctets),

	// RFC 2865
	std(60, "CHAP-Challenge", dictionary.DataTypeOctets),
	std(61, "NAS-Port-Type", dictionary.DataTypeInteger, values(map[string]uint32{
		"Async":              0,
		"Sync":               1,
		"ISDN":               2,
		"ISDN-V120":          3,
		"ISDN-V110":          4,
		"Virtual":            5,
		"PIAFS":              6,
		"HDLC-Clear-Channel": 7,
		"X.25":               8,
		"X.75":               9,
		"G.3-Fax":            10,
		"SDSL":               11,
		"ADSL-CAP":           12,
		"ADSL-DMT":           13,
		"IDSL":               14,
		"Ethernet":           15,
		"xDSL":               16,
		"Cable":              17,
		"Wireless-Other":     18,
		"Wireless-802.11":    19,
		"Token-Ring":         20,
		"FDDI":               21,
		"PPPoA":              30,
		"PPPoEoA":            31,
		"PPPoEoE":            32,
		"PPPoEoVLAN":         33,
		"PPPoEoQinQ":         34,
	})),
	std(62, "Port-Limit", dictionary.DataTypeInteger),
	std(63, "Login-LAT-Port", dictionary.DataTypeString),

	// RFC 2868
	std(64, "Tunnel-Type", dictionary.DataTypeInteger, values(map[string]uint32{
		"PPTP":     1,
		"L2F":      2,
		"L2TP":     3,
		"ATMP":     4,
		"VTP":      5,
		"AH":       6,
		"IP":       7,
		"MIN-IP":   8,
		"ESP":      9,
		"GRE":      10,
		"DVS":      11,
		"IP-in-IP": 12,
		"VLAN":     13,
	}), tagged),
	std(65, "Tunnel-Medium-Type", dictionary.DataTypeInteger, values(map[string]uint32{
		"IP":           1,
		"IPv4":         1,
		"IPv6":         2,
		"NSAP":         3,
		"HDLC":         4,
		"BBN-1822":     5,
		"IEEE-802":     6,
		"E.163":        7,
		"E.164":        8,
		"F.69":         9,
		"X.121":        10,
		"IPX":          11,
		"Appletalk":    12,
		"DecNet-IV":    13,
		"Banyan-Vines": 14,
		"E.164-NSAP":   15,
	}), tagged),
	std(66, "Tunnel-Client-Endpoint", dictionary.DataTypeString, tagged),
	std(67, "Tunnel-Server-Endpoint", dictionary.DataTypeString, tagged),

	// RFC 2867
	std(68, "Acct-Tunnel-Connection", dictionary.DataTypeString),

	// RFC 2868
	std(69, "Tunnel-Password", dictionary.DataTypeString, tagged, encrypted(dictionary.EncryptTunnelPassword)),

	// RFC 2869
	std(70, "ARAP-Password", dictionary.DataTypeOctets),
	std(71, "ARAP-Features", dictionary.DataTypeOctets),
	std(72, "ARAP-Zone-Access", dictionary.DataTypeInteger, values(map[string]uint32{
		"Default-Zone":          1,
		"Zone-Filter-Inclusive": 2,
		"Zone-Filter-Exclusive": 4,
	})),
	std(73, "ARAP-Security", dictionary.DataTypeInteger),
	std(74, "ARAP-Security-Data", dictionary.DataTypeString),
	std(75, "Password-Retry", dictionary.DataTypeInteger),
	std(76, "Prompt", dictionary.DataTypeInteger, values(map[string]uint32{
		"No-Echo": 0,
		"Echo":    1,
	})),
	std(77, "Connect-Info", dictionary.DataTypeString),
	std(78, "Configuration-Token", dictionary.DataTypeString),
	std(79, "EAP-Message", dictionary.DataTypeOctets),
	std(80, "Message-Authenticator", dictionary.DataTypeOctets),

	// RFC 2868
	std(81, "Tunnel-Private-Group-Id", dictionary.DataTypeString, tagged),
	std(82, "Tunnel-Assignment-Id", dictionary.DataTypeString, tagged),
	std(83, "Tunnel-Preference", dictionary.DataTypeInteger, tagged),

	// RFC 2869
	std(84, "ARAP-Challenge-Response", dictionary.DataTypeOctets),
	std(85, "Acct-Interim-Interval", dictionary.DataTypeInteger),

	// RFC 2867
	std(86, "Acct-Tunnel-Packets-Lost", dictionary.DataTypeInteger),

	// RFC 2869
	std(87, "NAS-Port-Id", dictionary.DataTypeString),
	std(88, "Framed-Pool", dictionary.DataTypeString),

	// RFC 4372
	std(89, "Chargeable-User-Identity", dictionary.DataTypeOctets),

	// RFC 2868
	std(90, "Tunnel-Client-Auth-Id", dictionary.DataTypeString, tagged),
	std(91, "Tunnel-Server-Auth-Id", dictionary.DataTypeString, tagged),

	// RFC 4849
	std(92, "NAS-Filter-Rule", dictionary.DataTypeString),

	// RFC 7155
	std(94, "Originating-Line-Info", dictionary.DataTypeOctets),

	// RFC 3162
	std(95, "NAS-IPv6-Address", dictionary.DataTypeIPv6Addr),
	std(96, "Framed-Interface-Id", dictionary.DataTypeOctets),
	std(97, "Framed-IPv6-Prefix", dictionary.DataTypeIPv6Prefix),
	std(98, "Login-IPv6-Host", dictionary.DataTypeIPv6Addr),
	std(99, "Framed-IPv6-Route", dictionary.DataTypeString),
	std(100, "Framed-IPv6-Pool", dictionary.DataTypeString),

	// RFC 3576
	std(101, "Error-Cause", dictionary.DataTypeInteger, values(map[string]uint32{
		"Residual-Context-Removed":               201,
		"Invalid-EAP-Packet":                     202,
		"Unsupported-Attribute":                  401,
		"Missing-Attribute":                      402,
		"NAS-Identification-Mismatch":            403,
		"Invalid-Request":                        404,
		"Unsupported-Service":                    405,
		"Unsupported-Extension":                  406,
		"Invalid-Attribute-Value":                407,
		"Administratively-Prohibited":            501,
		"Proxy-Request-Not-Routable":             502,
		"Session-Context-Not-Found":              503,
		"Session-Context-Not-Removable":          504,
		"Proxy-Processing-Error":                 505,
		"Resources-Unavailable":                  506,
		"Request-Initiated":                      507,
		"Multiple-Session-Selection-Unsupported": 508,
	})),

	// RFC 4818
	std(123, "Delegated-IPv6-Prefix", dictionary.DataTypeIPv6Prefix),
}
