package dictionaries

import "github.com/vitalvas/radkit/pkg/dictionary"

// WISPr holds the Wi-Fi Alliance roaming attributes.
var WISPr = &VendorDefinition{
	Vendor: dictionary.Vendor{ID: 14122, Name: "WISPr", TypeSize: 1, LengthSize: 1},
	Attributes: []*dictionary.AttributeTemplate{
		sub(1, "WISPr-Location-Id", dictionary.DataTypeString),
		sub(2, "WISPr-Location-Name", dictionary.DataTypeString),
		sub(3, "WISPr-Logoff-URL", dictionary.DataTypeString),
		sub(4, "WISPr-Redirection-URL", dictionary.DataTypeString),
		sub(5, "WISPr-Bandwidth-Min-Up", dictionary.DataTypeInteger),
		sub(6, "WISPr-Bandwidth-Min-Down", dictionary.DataTypeInteger),
		sub(7, "WISPr-Bandwidth-Max-Up", dictionary.DataTypeInteger),
		sub(8, "WISPr-Bandwidth-Max-Down", dictionary.DataTypeInteger),
		sub(9, "WISPr-Session-Terminate-Time", dictionary.DataTypeString),
	},
}
