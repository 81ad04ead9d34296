// Package notefile decodes the proprietary binary container produced by the
// handwriting device. Only the parts the importer needs are decoded: the
// page table and each page's optional recognized text. Stroke and bitmap
// payloads are left untouched.
//
// Container layout:
//   - the file starts with the "noteSN" signature
//   - every addressable block is a 4-byte little-endian length followed by
//     that many payload bytes
//   - the trailing 4 bytes of the file are the address of the footer block
//   - footer and page blocks are keyword payloads: a sequence of <KEY:VALUE>
//     pairs; the footer lists PAGE1..PAGEn block addresses in page order
//   - a page's RECOGNTEXT key addresses a block whose payload is
//     base64-encoded JSON with the recognition elements
package notefile

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Signature identifies a device note container.
const Signature = "noteSN"

// Decoder turns raw container bytes into a Notebook. The importer depends on
// this interface; tests substitute fakes.
type Decoder interface {
	Decode(data []byte) (*Notebook, error)
}

// Notebook is a lazily decoded note container. Decode parses the page table
// eagerly; recognized text is resolved per page on first access.
type Notebook struct {
	data  []byte
	pages []*Page
}

// Pages returns the notebook's pages in original order.
func (n *Notebook) Pages() []*Page {
	return n.pages
}

// Page is one page of a notebook.
type Page struct {
	nb       *Notebook
	textAddr uint32

	decoded bool
	text    string
}

// Text returns the page's recognized text, decoding it on first call.
// Pages without recognition data yield the empty string.
func (p *Page) Text() (string, error) {
	if p.decoded {
		return p.text, nil
	}
	if p.textAddr == 0 {
		p.decoded = true
		return "", nil
	}
	payload, err := readBlock(p.nb.data, p.textAddr)
	if err != nil {
		return "", fmt.Errorf("notefile: recognition block: %w", err)
	}
	text, err := decodeRecognition(payload)
	if err != nil {
		return "", err
	}
	p.text = text
	p.decoded = true
	return p.text, nil
}

// FileDecoder is the production Decoder implementation.
type FileDecoder struct{}

// NewDecoder returns a decoder for device note containers.
func NewDecoder() *FileDecoder {
	return &FileDecoder{}
}

var _ Decoder = (*FileDecoder)(nil)

var keywordRe = regexp.MustCompile(`<([A-Z_0-9]+):([^<>]*)>`)

// Decode parses the container's footer and page table. It fails on any
// structural damage: missing signature, truncated blocks, or addresses
// pointing outside the file.
func (d *FileDecoder) Decode(data []byte) (*Notebook, error) {
	if len(data) < len(Signature)+4 {
		return nil, fmt.Errorf("notefile: container too short (%d bytes)", len(data))
	}
	if string(data[:len(Signature)]) != Signature {
		return nil, fmt.Errorf("notefile: missing %q signature", Signature)
	}

	footerAddr := binary.LittleEndian.Uint32(data[len(data)-4:])
	footer, err := readBlock(data, footerAddr)
	if err != nil {
		return nil, fmt.Errorf("notefile: footer: %w", err)
	}
	meta := parseKeywords(footer)

	if ft, ok := meta["FILE_TYPE"]; ok && ft != "NOTE" {
		return nil, fmt.Errorf("notefile: unsupported file type %q", ft)
	}

	nb := &Notebook{data: data}
	for i := 1; ; i++ {
		addrStr, ok := meta[fmt.Sprintf("PAGE%d", i)]
		if !ok {
			break
		}
		pageAddr, err := parseAddr(addrStr)
		if err != nil {
			return nil, fmt.Errorf("notefile: page %d address: %w", i, err)
		}
		pageMeta, err := readBlock(data, pageAddr)
		if err != nil {
			return nil, fmt.Errorf("notefile: page %d: %w", i, err)
		}
		page := &Page{nb: nb}
		if raw, ok := parseKeywords(pageMeta)["RECOGNTEXT"]; ok && raw != "" && raw != "0" {
			textAddr, err := parseAddr(raw)
			if err != nil {
				return nil, fmt.Errorf("notefile: page %d recognition address: %w", i, err)
			}
			page.textAddr = textAddr
		}
		nb.pages = append(nb.pages, page)
	}
	return nb, nil
}

// readBlock returns the payload of the length-prefixed block at addr.
func readBlock(data []byte, addr uint32) ([]byte, error) {
	start := int(addr)
	if start < 0 || start+4 > len(data) {
		return nil, fmt.Errorf("address %d out of range", addr)
	}
	size := int(binary.LittleEndian.Uint32(data[start : start+4]))
	if start+4+size > len(data) {
		return nil, fmt.Errorf("block at %d truncated (size %d)", addr, size)
	}
	return data[start+4 : start+4+size], nil
}

// parseKeywords extracts <KEY:VALUE> pairs from a metadata payload. Repeated
// keys keep the first value.
func parseKeywords(payload []byte) map[string]string {
	out := make(map[string]string)
	for _, m := range keywordRe.FindAllStringSubmatch(string(payload), -1) {
		if _, ok := out[m[1]]; !ok {
			out[m[1]] = m[2]
		}
	}
	return out
}

func parseAddr(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint32(v), nil
}

// recognition is the decoded JSON shape of a RECOGNTEXT payload.
type recognition struct {
	Elements []recognitionElement `json:"elements"`
}

type recognitionElement struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// decodeRecognition decodes a base64 JSON recognition payload and joins the
// labels of its Text elements with line breaks.
func decodeRecognition(payload []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(payload)))
	if err != nil {
		return "", fmt.Errorf("notefile: recognition base64: %w", err)
	}
	var rec recognition
	if err := json.Unmarshal(raw, &rec); err != nil {
		return "", fmt.Errorf("notefile: recognition json: %w", err)
	}
	var lines []string
	for _, el := range rec.Elements {
		if el.Type == "Text" && el.Label != "" {
			lines = append(lines, el.Label)
		}
	}
	return strings.Join(lines, "\n"), nil
}
