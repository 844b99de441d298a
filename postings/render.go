package postings

import "strings"

// RenderText renders a postings list as one "<doc,tf,pos,...>" run per
// distinct docid (the docid, its term frequency, then each of its
// positions), concatenated with no separator.
//
// Scenario S1: pushing (1,100), (1,101), (2,102), (2,103) then
// rendering yields the literal string "<1,2,100,101><2,2,102,103>".
func (l *List) RenderText() string {
	var sb strings.Builder
	docIt := l.docids.Iter()
	tfIt := l.tfs.Iter()
	posIt := l.pos.Iter()

	for {
		doc, dok := docIt.Next()
		tf, tok := tfIt.Next()
		if !dok || !tok {
			break
		}
		sb.WriteByte('<')
		writeUint(&sb, uint64(doc))
		sb.WriteByte(',')
		writeUint(&sb, uint64(tf))
		for i := uint16(0); i < tf; i++ {
			pos, pok := posIt.Next()
			if !pok {
				break
			}
			sb.WriteByte(',')
			writeUint(&sb, uint64(pos))
		}
		sb.WriteByte('>')
	}
	return sb.String()
}

func writeUint(sb *strings.Builder, v uint64) {
	if v == 0 {
		sb.WriteByte('0')
		return
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	sb.Write(buf[i:])
}
