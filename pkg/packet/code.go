package packet

import "strconv"

// Code represents a RADIUS packet code as defined in RFC 2865
type Code uint8

// RADIUS packet codes as registered with IANA
const (
	CodeAccessRequest      Code = 1
	CodeAccessAccept       Code = 2
	CodeAccessReject       Code = 3
	CodeAccountingRequest  Code = 4
	CodeAccountingResponse Code = 5
	CodeAccountingStatus   Code = 6
	CodePasswordRequest    Code = 7
	CodePasswordAccept     Code = 8
	CodePasswordReject     Code = 9
	CodeAccountingMessage  Code = 10
	CodeAccessChallenge    Code = 11
	CodeStatusServer       Code = 12
	CodeStatusClient       Code = 13

	CodeResourceFreeRequest              Code = 21
	CodeResourceFreeResponse             Code = 22
	CodeResourceQueryRequest             Code = 23
	CodeResourceQueryResponse            Code = 24
	CodeAlternateResourceReclaimRequest  Code = 25
	CodeNASRebootRequest                 Code = 26
	CodeNASRebootResponse                Code = 27
	CodeReserved                         Code = 28
	CodeNextPasscode                     Code = 29
	CodeNewPin                           Code = 30
	CodeTerminateSession                 Code = 31
	CodePasswordExpired                  Code = 32
	CodeEventRequest                     Code = 33
	CodeEventResponse                    Code = 34

	// RFC 5176 Dynamic Authorization
	CodeDisconnectRequest Code = 40
	CodeDisconnectACK     Code = 41
	CodeDisconnectNAK     Code = 42
	CodeCoARequest        Code = 43
	CodeCoAACK            Code = 44
	CodeCoANAK            Code = 45

	CodeIPAddressAllocate Code = 50
	CodeIPAddressRelease  Code = 51
	CodeProtocolError     Code = 52
)

var codeNames = map[Code]string{
	CodeAccessRequest:      "Access-Request",
	CodeAccessAccept:       "Access-Accept",
	CodeAccessReject:       "Access-Reject",
	CodeAccountingRequest:  "Accounting-Request",
	CodeAccountingResponse: "Accounting-Response",
	CodeAccountingStatus:   "Accounting-Status",
	CodePasswordRequest:    "Password-Request",
	CodePasswordAccept:     "Password-Accept",
	CodePasswordReject:     "Password-Reject",
	CodeAccountingMessage:  "Accounting-Message",
	CodeAccessChallenge:    "Access-Challenge",
	CodeStatusServer:       "Status-Server",
	CodeStatusClient:       "Status-Client",

	CodeResourceFreeRequest:             "Resource-Free-Request",
	CodeResourceFreeResponse:            "Resource-Free-Response",
	CodeResourceQueryRequest:            "Resource-Query-Request",
	CodeResourceQueryResponse:           "Resource-Query-Response",
	CodeAlternateResourceReclaimRequest: "Alternate-Resource-Reclaim-Request",
	CodeNASRebootRequest:                "NAS-Reboot-Request",
	CodeNASRebootResponse:               "NAS-Reboot-Response",
	CodeReserved:                        "Reserved",
	CodeNextPasscode:                    "Next-Passcode",
	CodeNewPin:                          "New-Pin",
	CodeTerminateSession:                "Terminate-Session",
	CodePasswordExpired:                 "Password-Expired",
	CodeEventRequest:                    "Event-Request",
	CodeEventResponse:                   "Event-Response",

	CodeDisconnectRequest: "Disconnect-Request",
	CodeDisconnectACK:     "Disconnect-ACK",
	CodeDisconnectNAK:     "Disconnect-NAK",
	CodeCoARequest:        "CoA-Request",
	CodeCoAACK:            "CoA-ACK",
	CodeCoANAK:            "CoA-NAK",

	CodeIPAddressAllocate: "IP-Address-Allocate",
	CodeIPAddressRelease:  "IP-Address-Release",
	CodeProtocolError:     "Protocol-Error",
}

// String returns the IANA name of the packet code
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Unknown (" + strconv.Itoa(int(c)) + ")"
}

// IsValid checks if the packet code is registered
func (c Code) IsValid() bool {
	_, ok := codeNames[c]
	return ok
}

// IsRequest returns true if the code represents a request packet
func (c Code) IsRequest() bool {
	switch c {
	case CodeAccessRequest, CodeAccountingRequest, CodeStatusServer,
		CodePasswordRequest, CodeAccountingMessage,
		CodeResourceFreeRequest, CodeResourceQueryRequest,
		CodeAlternateResourceReclaimRequest, CodeNASRebootRequest,
		CodeEventRequest, CodeDisconnectRequest, CodeCoARequest,
		CodeIPAddressAllocate, CodeIPAddressRelease:
		return true
	default:
		return false
	}
}

// IsAccessResponse returns true for the replies to an Access-Request
func (c Code) IsAccessResponse() bool {
	switch c {
	case CodeAccessAccept, CodeAccessReject, CodeAccessChallenge:
		return true
	default:
		return false
	}
}

// UsesRandomAuthenticator reports whether requests of this code carry a random authenticator
// instead of one hashed over the packet.
func (c Code) UsesRandomAuthenticator() bool {
	return c == CodeAccessRequest || c == CodeStatusServer
}

// ExpectedResponse returns the response codes valid for a request
func (c Code) ExpectedResponse() []Code {
	switch c {
	case CodeAccessRequest:
		return []Code{CodeAccessAccept, CodeAccessReject, CodeAccessChallenge}
	case CodeAccountingRequest:
		return []Code{CodeAccountingResponse}
	case CodeStatusServer:
		// RFC 5997: the reply matches the kind of port probed
		return []Code{CodeAccessAccept, CodeAccessReject, CodeAccountingResponse}
	case CodePasswordRequest:
		return []Code{CodePasswordAccept, CodePasswordReject}
	case CodeResourceFreeRequest:
		return []Code{CodeResourceFreeResponse}
	case CodeResourceQueryRequest:
		return []Code{CodeResourceQueryResponse}
	case CodeNASRebootRequest:
		return []Code{CodeNASRebootResponse}
	case CodeEventRequest:
		return []Code{CodeEventResponse}
	case CodeDisconnectRequest:
		return []Code{CodeDisconnectACK, CodeDisconnectNAK}
	case CodeCoARequest:
		return []Code{CodeCoAACK, CodeCoANAK}
	default:
		return nil
	}
}
