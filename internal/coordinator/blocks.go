// internal/coordinator/blocks.go
package coordinator

import "github.com/tamzrod/heliobridge/internal/catalog"

// maxReadWords is the register count limit of one read-holding-registers
// request (Modbus spec, FC 3).
const maxReadWords = 125

// readBlock is one coalesced read: strictly contiguous catalog entries
// fetched with a single holding-register request.
type readBlock struct {
	start uint16
	count uint16
	keys  []string
}

// planBlocks walks the catalog in address order and coalesces adjacent
// entries, minimizing round trips per cycle. The catalog is immutable,
// so the plan is computed once at construction.
func planBlocks(cat *catalog.Catalog) []readBlock {
	var blocks []readBlock

	for _, key := range cat.Keys() {
		d, _ := cat.Lookup(key)

		if n := len(blocks); n > 0 {
			last := &blocks[n-1]
			if last.start+last.count == d.Addr && last.count+d.Words() <= maxReadWords {
				last.count += d.Words()
				last.keys = append(last.keys, key)
				continue
			}
		}

		blocks = append(blocks, readBlock{
			start: d.Addr,
			count: d.Words(),
			keys:  []string{key},
		})
	}

	return blocks
}
