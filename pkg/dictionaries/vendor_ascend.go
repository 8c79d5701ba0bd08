package dictionaries

import "github.com/vitalvas/radkit/pkg/dictionary"

// AscendVendorID is the IANA enterprise number of Ascend Communications.
const AscendVendorID = 529

// Ascend holds the subset of Ascend attributes still seen on NAS equipment.
var Ascend = &VendorDefinition{
	Vendor: dictionary.Vendor{ID: AscendVendorID, Name: "Ascend", TypeSize: 1, LengthSize: 1},
	Attributes: []*dictionary.AttributeTemplate{
		sub(135, "Ascend-Client-Primary-DNS", dictionary.DataTypeIPAddr),
		sub(136, "Ascend-Client-Secondary-DNS", dictionary.DataTypeIPAddr),
		sub(213, "Ascend-Send-Auth", dictionary.DataTypeInteger, values(map[string]uint32{
			"Send-Auth-None":    0,
			"Send-Auth-PAP":     1,
			"Send-Auth-CHAP":    2,
			"Send-Auth-MS-CHAP": 3,
		})),
		sub(214, "Ascend-Send-Secret", dictionary.DataTypeString, encrypted(dictionary.EncryptAscendSendSecret)),
		sub(242, "Ascend-Data-Filter", dictionary.DataTypeOctets),
	},
}
