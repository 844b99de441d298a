package diskindex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofrs/uuid"

	"indexkit/dispatch"
)

// Descriptor is the codec descriptor file of spec.md section 6: the
// codec chosen at build time, the d-ness driving decoder dispatch,
// and a build id (SPEC_FULL.md supplement C.2) so two snapshots of
// the same corpus can be told apart. Section 6 leaves the exact bytes
// implementation-defined; this spec pins a line-oriented text format.
type Descriptor struct {
	CodecName string
	DNess     dispatch.DNess
	BuildID   uuid.UUID
}

// NewDescriptor stamps a fresh build id, the way the teacher tags
// resources (sessions, matches) with a gofrs/uuid value.
func NewDescriptor(codecName string, dness dispatch.DNess) (Descriptor, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return Descriptor{}, fmt.Errorf("diskindex: generating build id: %w", err)
	}
	return Descriptor{CodecName: codecName, DNess: dness, BuildID: id}, nil
}

// Encode renders the descriptor as the pinned text format:
//
//	codec=<name>
//	d=<0|1|-1>
//	build=<uuid>
func (d Descriptor) Encode() []byte {
	var sb strings.Builder
	sb.WriteString("codec=")
	sb.WriteString(d.CodecName)
	sb.WriteString("\nd=")
	sb.WriteString(strconv.Itoa(int(d.DNess)))
	sb.WriteString("\nbuild=")
	sb.WriteString(d.BuildID.String())
	sb.WriteString("\n")
	return []byte(sb.String())
}

// DecodeDescriptor parses the text format Encode produces, returning
// ErrIndexCorrupt for anything that doesn't parse — a malformed
// descriptor is a fatal reader-level condition, never a recoverable one.
func DecodeDescriptor(data []byte) (Descriptor, error) {
	fields := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return Descriptor{}, corruptf("codec descriptor: malformed line %q", line)
		}
		fields[k] = v
	}

	name, ok := fields["codec"]
	if !ok || name == "" {
		return Descriptor{}, corruptf("codec descriptor: missing codec name")
	}

	dRaw, ok := fields["d"]
	if !ok {
		return Descriptor{}, corruptf("codec descriptor: missing d-ness")
	}
	dVal, err := strconv.Atoi(dRaw)
	if err != nil {
		return Descriptor{}, corruptf("codec descriptor: d-ness %q is not an integer", dRaw)
	}
	dness := dispatch.DNess(dVal)
	switch dness {
	case dispatch.DZero, dispatch.DOne, dispatch.DNone:
	default:
		return Descriptor{}, corruptf("codec descriptor: d-ness %d out of domain {0,1,-1}", dVal)
	}

	var id uuid.UUID
	if raw, ok := fields["build"]; ok && raw != "" {
		id, err = uuid.FromString(raw)
		if err != nil {
			return Descriptor{}, corruptf("codec descriptor: build id %q is not a uuid", raw)
		}
	}

	return Descriptor{CodecName: name, DNess: dness, BuildID: id}, nil
}
