package packet

const (
	// HeaderLength is the length of the RADIUS packet header in bytes
	HeaderLength = 20
	// MaxPacketLength is the maximum allowed RADIUS packet length
	MaxPacketLength = 4096
	// MinPacketLength is the minimum allowed RADIUS packet length
	MinPacketLength = HeaderLength
	// AuthenticatorLength is the length of the authenticator field
	AuthenticatorLength = 16
)

// Attribute type codes the packet codec relies on.
const (
	TypeUserName             = 1
	TypeUserPassword         = 2
	TypeCHAPPassword         = 3
	TypeReplyMessage         = 18
	TypeProxyState           = 33
	TypeCHAPChallenge        = 60
	TypeARAPPassword         = 70
	TypeEAPMessage           = 79
	TypeMessageAuthenticator = 80
)
