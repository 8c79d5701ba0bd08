package dictionaries

import "github.com/vitalvas/radkit/pkg/dictionary"

// Mikrotik holds the RouterOS vendor attributes.
var Mikrotik = &VendorDefinition{
	Vendor: dictionary.Vendor{ID: 14988, Name: "Mikrotik", TypeSize: 1, LengthSize: 1},
	Attributes: []*dictionary.AttributeTemplate{
		sub(1, "Mikrotik-Recv-Limit", dictionary.DataTypeInteger),
		sub(2, "Mikrotik-Xmit-Limit", dictionary.DataTypeInteger),
		sub(3, "Mikrotik-Group", dictionary.DataTypeString),
		sub(4, "Mikrotik-Wireless-Forward", dictionary.DataTypeInteger),
		sub(5, "Mikrotik-Wireless-Skip-Dot1x", dictionary.DataTypeInteger),
		sub(6, "Mikrotik-Wireless-Enc-Algo", dictionary.DataTypeInteger, values(map[string]uint32{
			"No-encryption": 0,
			"40-bit-WEP":    1,
			"104-bit-WEP":   2,
			"AES-CCM":       3,
			"TKIP":          4,
		})),
		sub(7, "Mikrotik-Wireless-Enc-Key", dictionary.DataTypeString),
		sub(8, "Mikrotik-Rate-Limit", dictionary.DataTypeString),
		sub(9, "Mikrotik-Realm", dictionary.DataTypeString),
		sub(10, "Mikrotik-Host-IP", dictionary.DataTypeIPAddr),
		sub(11, "Mikrotik-Mark-Id", dictionary.DataTypeString),
		sub(12, "Mikrotik-Advertise-URL", dictionary.DataTypeString),
		sub(13, "Mikrotik-Advertise-Interval", dictionary.DataTypeInteger),
		sub(14, "Mikrotik-Recv-Limit-Gigawords", dictionary.DataTypeInteger),
		sub(15, "Mikrotik-Xmit-Limit-Gigawords", dictionary.DataTypeInteger),
		sub(16, "Mikrotik-Wireless-PSK", dictionary.DataTypeString),
		sub(17, "Mikrotik-Total-Limit", dictionary.DataTypeInteger),
		sub(18, "Mikrotik-Total-Limit-Gigawords", dictionary.DataTypeInteger),
		sub(19, "Mikrotik-Address-List", dictionary.DataTypeString),
		sub(20, "Mikrotik-Wireless-MPKey", dictionary.DataTypeString),
		sub(21, "Mikrotik-Wireless-Comment", dictionary.DataTypeString),
		sub(22, "Mikrotik-Delegated-IPv6-Pool", dictionary.DataTypeString),
		sub(23, "Mikrotik-DHCP-Option-Set", dictionary.DataTypeString),
		sub(24, "Mikrotik-DHCP-Option-Param-STR1", dictionary.DataTypeString),
		sub(25, "Mikrotik-DHCP-Option-ParamSTR2", dictionary.DataTypeString),
		sub(26, "Mikrotik-Wireless-VLANID", dictionary.DataTypeInteger),
		sub(27, "Mikrotik-Wireless-VLANID-Type", dictionary.DataTypeInteger),
		sub(28, "Mikrotik-Wireless-Minsignal", dictionary.DataTypeString),
		sub(29, "Mikrotik-Wireless-Maxsignal", dictionary.DataTypeString),
	},
}
