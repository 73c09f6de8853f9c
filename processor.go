package hal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Processor wraps a codec with validation, fingerprinting and signal emission.
// Use Render/Parse for byte slices and Encode/Decode for streams.
//
// Processors are safe for concurrent use. SetHasher may be called at any time.
type Processor struct {
	codec Codec

	// Mutable configuration protected by mu
	mu      sync.RWMutex
	hashers map[HashAlgo]Hasher
}

// NewProcessor creates a processor for codec with the builtin hashers.
func NewProcessor(codec Codec) *Processor {
	return &Processor{
		codec:   codec,
		hashers: builtinHashers(),
	}
}

// ContentType returns the media type of the wrapped codec.
func (p *Processor) ContentType() string {
	return p.codec.ContentType()
}

// Codec returns the wrapped codec.
func (p *Processor) Codec() Codec {
	return p.codec
}

// SetHasher registers a hasher for the given algorithm.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetHasher(algo HashAlgo, h Hasher) *Processor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hashers[algo] = h
	return p
}

// Render validates r and encodes it.
func (p *Processor) Render(ctx context.Context, r Representation) ([]byte, error) {
	ct := p.codec.ContentType()
	start := time.Now()
	emitRenderStart(ctx, ct, r)

	var retErr error
	var retData []byte
	defer func() {
		emitRenderComplete(ctx, ct, len(retData), time.Since(start), retErr)
	}()

	if err := r.Validate(); err != nil {
		emitValidateFailed(ctx, ct, err)
		retErr = err
		return nil, retErr
	}

	retData, retErr = p.codec.Marshal(r)
	if retErr != nil {
		retData = nil
	}
	return retData, retErr
}

// Parse decodes data into a representation carrying data as its content.
func (p *Processor) Parse(ctx context.Context, data []byte) (Representation, error) {
	ct := p.codec.ContentType()
	start := time.Now()
	emitParseStart(ctx, ct, len(data))

	var retErr error
	var retRep Representation
	defer func() {
		emitParseComplete(ctx, ct, retRep, time.Since(start), retErr)
	}()

	retRep, retErr = p.codec.Unmarshal(data)
	if retErr != nil {
		retRep = Representation{}
		return retRep, retErr
	}
	retRep = retRep.WithContent(data)
	return retRep, nil
}

// Encode renders r and writes it to w.
func (p *Processor) Encode(ctx context.Context, w io.Writer, r Representation) error {
	data, err := p.Render(ctx, r)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", p.codec.ContentType(), err)
	}
	return nil
}

// Decode reads rd to the end and parses the result.
func (p *Processor) Decode(ctx context.Context, rd io.Reader) (Representation, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return Representation{}, fmt.Errorf("read %s: %w", p.codec.ContentType(), err)
	}
	return p.Parse(ctx, data)
}

// WriteFile renders r into the file at path, creating or truncating it.
func (p *Processor) WriteFile(ctx context.Context, path string, r Representation) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return p.Encode(ctx, f, r)
}

// ReadFile parses the file at path.
func (p *Processor) ReadFile(ctx context.Context, path string) (Representation, error) {
	f, err := os.Open(path)
	if err != nil {
		return Representation{}, err
	}
	defer f.Close()
	return p.Decode(ctx, f)
}

// Fingerprint hashes r with the hasher registered for algo.
func (p *Processor) Fingerprint(r Representation, algo HashAlgo) (string, error) {
	p.mu.RLock()
	h, ok := p.hashers[algo]
	p.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("missing hasher for algorithm %q", algo)
	}
	return Fingerprint(r, h)
}
