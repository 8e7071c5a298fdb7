package gtirb

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gtirb/internal/proto"
	"gtirb/internal/v0"
)

// The on-disk envelope: five magic bytes, two reserved zero bytes, one
// schema version byte, then the IR payload.
var envelopeMagic = [5]byte{'G', 'T', 'I', 'R', 'B'}

const headerLen = 8

// WriteIR serializes the IR to w at the current schema version. The output
// is deterministic: an unchanged graph always writes the same bytes.
func WriteIR(ir *IR, w io.Writer) error {
	hdr := make([]byte, headerLen)
	copy(hdr, envelopeMagic[:])
	hdr[7] = CurrentVersion
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("gtirb: write header: %w", err)
	}
	if _, err := w.Write(ir.toProto().Marshal()); err != nil {
		return fmt.Errorf("gtirb: write payload: %w", err)
	}
	return nil
}

// ReadIR deserializes an envelope from r into a fresh graph owned by ctx.
// Files at older schema versions are migrated forward before
// materialization. Dangling references are reported as integrity warnings
// alongside the successfully constructed IR, not as errors.
func ReadIR(ctx *Context, r io.Reader) (*IR, []Diag, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("gtirb: read: %w", err)
	}
	payload, version, err := splitEnvelope(raw)
	if err != nil {
		return nil, nil, err
	}
	if version != CurrentVersion {
		payload, err = upgradePayload(payload, version)
		if err != nil {
			return nil, nil, err
		}
	}
	pir := &proto.IR{}
	if err := pir.Unmarshal(payload); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	d := &decoder{ctx: ctx}
	ir, err := d.decodeIR(pir)
	if err != nil {
		return nil, nil, err
	}
	return ir, d.diags.Items(), nil
}

// ReadIRFile loads an envelope from a file.
func ReadIRFile(ctx *Context, path string) (*IR, []Diag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("gtirb: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadIR(ctx, f)
}

// WriteIRFile writes an envelope to a file.
func WriteIRFile(ir *IR, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gtirb: create %s: %w", path, err)
	}
	if err := WriteIR(ir, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FileVersion reads just the envelope header and reports the schema
// version of the file.
func FileVersion(r io.Reader) (uint8, error) {
	hdr := make([]byte, headerLen)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return 0, fmt.Errorf("%w: truncated header", ErrBadEnvelope)
	}
	if !bytes.Equal(hdr[:5], envelopeMagic[:]) {
		return 0, fmt.Errorf("%w: bad magic %q", ErrBadEnvelope, hdr[:5])
	}
	return hdr[7], nil
}

// Upgrade migrates an envelope file to the current schema version without
// materializing the graph. A file already at the current version is copied
// verbatim.
func Upgrade(pathIn, pathOut string) error {
	raw, err := os.ReadFile(pathIn)
	if err != nil {
		return fmt.Errorf("gtirb: read %s: %w", pathIn, err)
	}
	payload, version, err := splitEnvelope(raw)
	if err != nil {
		return err
	}
	if version != CurrentVersion {
		payload, err = upgradePayload(payload, version)
		if err != nil {
			return err
		}
	}
	out := make([]byte, headerLen, headerLen+len(payload))
	copy(out, envelopeMagic[:])
	out[7] = CurrentVersion
	out = append(out, payload...)
	if err := os.WriteFile(pathOut, out, 0644); err != nil {
		return fmt.Errorf("gtirb: write %s: %w", pathOut, err)
	}
	return nil
}

func splitEnvelope(raw []byte) (payload []byte, version uint8, err error) {
	if len(raw) < headerLen {
		return nil, 0, fmt.Errorf("%w: %d bytes is shorter than the header", ErrBadEnvelope, len(raw))
	}
	if !bytes.Equal(raw[:5], envelopeMagic[:]) {
		return nil, 0, fmt.Errorf("%w: bad magic %q", ErrBadEnvelope, raw[:5])
	}
	if raw[5] != 0 || raw[6] != 0 {
		return nil, 0, fmt.Errorf("%w: reserved bytes not zero", ErrBadEnvelope)
	}
	version = raw[7]
	if version > CurrentVersion {
		return nil, 0, fmt.Errorf("%w: unknown version %d", ErrBadEnvelope, version)
	}
	return raw[headerLen:], version, nil
}

// upgradePayload applies the version adapters in sequence until the
// payload reaches the current schema.
func upgradePayload(payload []byte, version uint8) ([]byte, error) {
	for ; version < CurrentVersion; version++ {
		switch version {
		case 0:
			next, err := v0.Upgrade(payload)
			if err != nil {
				return nil, fmt.Errorf("%w: upgrade v0: %v", ErrDecode, err)
			}
			payload = next
		default:
			return nil, fmt.Errorf("%w: no upgrade path from version %d", ErrBadEnvelope, version)
		}
	}
	return payload, nil
}
