package vcf

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// maxLineSize bounds a single VCF line. Multi-sample INFO/FORMAT columns
// can get long, but anything beyond this is almost certainly a broken file.
const maxLineSize = 64 * 1024 * 1024

// Reader reads VCF records from a stream. The header is parsed eagerly on
// construction; records are parsed one line at a time. The reader does not
// verify sort order, that is left to the consumer.
type Reader struct {
	scanner *bufio.Scanner
	header  *Header
	line    int
	closer  io.Closer
}

// NewReader creates a Reader and parses the header lines up to and
// including the #CHROM column line.
func NewReader(r io.Reader) (*Reader, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	vr := &Reader{
		scanner: scanner,
		header: &Header{
			Info:   make(map[string]FieldInfo),
			Format: make(map[string]FieldInfo),
		},
	}
	if err := vr.parseHeader(); err != nil {
		return nil, err
	}
	return vr, nil
}

// Header returns the parsed header.
func (vr *Reader) Header() *Header {
	return vr.header
}

// Read returns the next record, or io.EOF at the end of input.
func (vr *Reader) Read() (*Record, error) {
	for vr.scanner.Scan() {
		vr.line++
		line := vr.scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			return nil, fmt.Errorf("line %d: header line after data section", vr.line)
		}
		return vr.parseRecord(line)
	}
	if err := vr.scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return nil, io.EOF
}

// Close closes the underlying file, if the reader owns one.
func (vr *Reader) Close() error {
	if vr.closer != nil {
		return vr.closer.Close()
	}
	return nil
}

func (vr *Reader) parseHeader() error {
	sawColumns := false
	for vr.scanner.Scan() {
		vr.line++
		line := vr.scanner.Text()

		if strings.HasPrefix(line, "##") {
			vr.parseMetaLine(line[2:])
			continue
		}
		if strings.HasPrefix(line, "#CHROM") {
			fields := strings.Split(line, "\t")
			if len(fields) < 8 {
				return fmt.Errorf("line %d: column header has %d fields, expected at least 8", vr.line, len(fields))
			}
			if len(fields) > 9 {
				vr.header.Samples = fields[9:]
			}
			sawColumns = true
			break
		}
		return fmt.Errorf("line %d: unexpected line in header: %q", vr.line, line)
	}
	if err := vr.scanner.Err(); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if !sawColumns {
		return fmt.Errorf("missing #CHROM column header line")
	}
	return nil
}

func (vr *Reader) parseMetaLine(line string) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return
	}
	switch key {
	case "fileformat":
		vr.header.FileFormat = value
	case "contig":
		attrs := parseStructured(value)
		if attrs["ID"] == "" {
			return
		}
		length, _ := strconv.Atoi(attrs["length"])
		vr.header.Contigs = append(vr.header.Contigs, Contig{
			Name:   attrs["ID"],
			Length: length,
		})
	case "INFO":
		if f := parseFieldInfo(value); f.ID != "" {
			vr.header.Info[f.ID] = f
		}
	case "FORMAT":
		if f := parseFieldInfo(value); f.ID != "" {
			vr.header.Format[f.ID] = f
		}
	}
}

func parseFieldInfo(value string) FieldInfo {
	attrs := parseStructured(value)
	return FieldInfo{
		ID:          attrs["ID"],
		Number:      attrs["Number"],
		Type:        attrs["Type"],
		Description: attrs["Description"],
	}
}

// parseStructured parses a `<key=value,key="quoted, value",...>` header
// value into a map. Commas inside quoted values do not split.
func parseStructured(value string) map[string]string {
	attrs := make(map[string]string)
	value = strings.TrimPrefix(value, "<")
	value = strings.TrimSuffix(value, ">")

	for len(value) > 0 {
		eq := strings.Index(value, "=")
		if eq < 0 {
			break
		}
		key := value[:eq]
		value = value[eq+1:]

		var val string
		if strings.HasPrefix(value, `"`) {
			end := strings.Index(value[1:], `"`)
			if end < 0 {
				break
			}
			val = value[1 : 1+end]
			value = strings.TrimPrefix(value[2+end:], ",")
		} else {
			comma := strings.Index(value, ",")
			if comma < 0 {
				val = value
				value = ""
			} else {
				val = value[:comma]
				value = value[comma+1:]
			}
		}
		attrs[key] = val
	}
	return attrs
}

func (vr *Reader) parseRecord(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, fmt.Errorf("line %d: record has %d fields, expected at least 8", vr.line, len(fields))
	}

	pos, err := strconv.Atoi(fields[1])
	if err != nil || pos < 1 {
		return nil, fmt.Errorf("line %d: invalid position %q", vr.line, fields[1])
	}

	rec := &Record{
		Chromosome: fields[0],
		Position:   pos,
		ID:         fields[2],
		Ref:        fields[3],
		Qual:       math.Inf(-1),
		header:     vr.header,
		info:       make(map[string]string),
	}

	if fields[4] != "." && fields[4] != "" {
		rec.Alt = strings.Split(fields[4], ",")
	}
	if fields[5] != "." && fields[5] != "" {
		qual, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quality %q", vr.line, fields[5])
		}
		rec.Qual = qual
	}
	if fields[6] != "." && fields[6] != "" {
		rec.Filter = strings.Split(fields[6], ";")
	}
	if fields[7] != "." && fields[7] != "" {
		for _, kv := range strings.Split(fields[7], ";") {
			key, value, _ := strings.Cut(kv, "=")
			rec.info[key] = value
		}
	}
	if len(fields) > 8 {
		rec.format = strings.Split(fields[8], ":")
		for _, sample := range fields[9:] {
			rec.samples = append(rec.samples, strings.Split(sample, ":"))
		}
	}
	return rec, nil
}
