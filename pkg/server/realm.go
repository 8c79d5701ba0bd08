package server

import (
	"strings"
	"sync"

	"github.com/vitalvas/radkit/pkg/client"
	"github.com/vitalvas/radkit/pkg/dictionary"
	"github.com/vitalvas/radkit/pkg/packet"
)

// Realm is a set of origin servers, tried in order.
type Realm struct {
	Name    string
	Origins []client.Endpoint
}

// RealmResolver routes by the realm of the User-Name ("user@realm").
// Requests without a known realm go to the default realm when one is set.
// Realm names are case-insensitive.
type RealmResolver struct {
	mu           sync.RWMutex
	realms       map[string]Realm
	defaultRealm string
}

func NewRealmResolver(defaultRealm string, realms ...Realm) *RealmResolver {
	r := &RealmResolver{
		realms:       make(map[string]Realm, len(realms)),
		defaultRealm: strings.ToLower(defaultRealm),
	}
	for _, realm := range realms {
		r.Add(realm)
	}
	return r
}

// Add registers or replaces a realm.
func (r *RealmResolver) Add(realm Realm) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.realms[strings.ToLower(realm.Name)] = realm
}

// ResolveOrigin implements OriginResolver.
func (r *RealmResolver) ResolveOrigin(req *Request) []client.Endpoint {
	name := ""
	if user, ok := req.Packet.Attribute(dictionary.NoVendor, packet.TypeUserName); ok {
		name = RealmOf(user.ValueString())
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if realm, ok := r.realms[name]; ok && name != "" {
		return realm.Origins
	}
	if realm, ok := r.realms[r.defaultRealm]; ok {
		return realm.Origins
	}
	return nil
}

// RealmOf returns the lower-cased part after the last '@', or "".
func RealmOf(user string) string {
	i := strings.LastIndexByte(user, '@')
	if i < 0 {
		return ""
	}
	return strings.ToLower(user[i+1:])
}
