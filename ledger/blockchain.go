package ledger

import (
	"fmt"
	"sync"
	"time"
)

const (
	// GenesisPrevHash is the sentinel previous hash of the genesis block.
	GenesisPrevHash = "0"
	// GenesisData is the payload of the genesis block.
	GenesisData = "Genesis block"
)

// Blockchain is an append-only sequence of hash-linked blocks, safe for
// concurrent use.
type Blockchain struct {
	mu     sync.RWMutex
	blocks []Block
	cfg    config
}

// NewBlockchain creates a new blockchain with an initialized genesis block.
// The genesis block has index 0, previous hash "0" and GenesisData as payload.
// It fails only if the configured scheme is not supported.
func NewBlockchain(opts ...Option) (*Blockchain, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	bc := &Blockchain{
		blocks: make([]Block, 0, 1),
		cfg:    cfg,
	}

	ts := cfg.genesisTime
	if ts.IsZero() {
		ts = cfg.clock()
	}
	genesis, err := NewBlockWithScheme(cfg.scheme, 0, ts, GenesisData, GenesisPrevHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create genesis block: %w", err)
	}
	bc.blocks = append(bc.blocks, genesis)
	cfg.logger.Debug("genesis block created", "hash", genesis.Hash(), "scheme", cfg.scheme.String())

	return bc, nil
}

// Scheme returns the fingerprint scheme the chain seals and verifies with.
func (bc *Blockchain) Scheme() Scheme { return bc.cfg.scheme }

// Append links b to the current latest block and adds it to the chain. The
// previous hash supplied by the caller is discarded and the block is resealed
// with the chain's scheme; the stored block is returned.
// Without WithStrictIndices the only failure is a payload the chain's
// encoding cannot represent.
func (bc *Blockchain) Append(b Block) (Block, error) {
	started := time.Now()
	bc.mu.Lock()
	defer bc.mu.Unlock()

	stored, err := bc.link(b)
	if err == nil {
		bc.blocks = append(bc.blocks, stored)
		bc.cfg.logger.Debug("block appended", "index", stored.Index(), "hash", stored.Hash(), "prev_hash", stored.PrevHash())
	}
	bc.cfg.observer.ObserveAppend(len(bc.blocks), err, started)
	return stored, err
}

func (bc *Blockchain) link(b Block) (Block, error) {
	latest := bc.blocks[len(bc.blocks)-1]

	if bc.cfg.strict && b.Index() != latest.Index()+1 {
		return Block{}, &IntegrityError{
			Position: len(bc.blocks),
			Err:      ErrIndexDiscontinuity,
			Expected: fmt.Sprint(latest.Index() + 1),
			Got:      fmt.Sprint(b.Index()),
		}
	}

	b, err := b.withScheme(bc.cfg.scheme)
	if err != nil {
		return Block{}, err
	}
	return b.WithPrevHash(latest.Hash()).Reseal(), nil
}

// GetLatest returns the most recently added block in the blockchain.
func (bc *Blockchain) GetLatest() Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return bc.blocks[len(bc.blocks)-1]
}

// GetByIndex retrieves a block by its position in the chain. Returns an error
// if the position is out of range.
func (bc *Blockchain) GetByIndex(pos int) (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if pos < 0 || pos >= len(bc.blocks) {
		return Block{}, fmt.Errorf("%w: %d", ErrOutOfRange, pos)
	}

	return bc.blocks[pos], nil
}

// Len returns the number of blocks, genesis included.
func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return len(bc.blocks)
}

// Blocks returns a copy of the chain, genesis first.
func (bc *Blockchain) Blocks() []Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return append([]Block(nil), bc.blocks...)
}

// Tamper replaces the block at pos with the result of f without relinking
// anything. It simulates an edit to stored history so that Verify can be
// exercised against it.
func (bc *Blockchain) Tamper(pos int, f func(Block) (Block, error)) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if pos < 0 || pos >= len(bc.blocks) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, pos)
	}
	b, err := f(bc.blocks[pos])
	if err != nil {
		return fmt.Errorf("tamper block %d: %w", pos, err)
	}
	bc.blocks[pos] = b
	bc.cfg.logger.Warn("block rewritten outside of append", "position", pos, "hash", b.Hash())

	return nil
}

// IsValid reports whether every block passes Verify.
func (bc *Blockchain) IsValid() bool {
	return bc.Verify() == nil
}

// Verify validates the integrity of the entire blockchain. Each block after
// genesis must hash to its stored hash under the chain's scheme and must point
// at the stored hash of its predecessor. The first failure is returned as an
// *IntegrityError. Genesis is trusted unless WithStrictIndices is set.
func (bc *Blockchain) Verify() error {
	started := time.Now()
	bc.mu.RLock()
	err := bc.verify()
	n := len(bc.blocks)
	bc.mu.RUnlock()

	if err != nil {
		bc.cfg.logger.Warn("blockchain verification failed", "length", n, "error", err)
	}
	bc.cfg.observer.ObserveVerify(n, err, started)
	return err
}

func (bc *Blockchain) verify() error {
	if len(bc.blocks) == 0 {
		return nil
	}

	if bc.cfg.strict {
		if err := bc.validateGenesis(bc.blocks[0]); err != nil {
			return err
		}
	}

	for i := 1; i < len(bc.blocks); i++ {
		if err := bc.validateBlock(i, bc.blocks[i], bc.blocks[i-1]); err != nil {
			return err
		}
	}

	return nil
}

func (bc *Blockchain) validateGenesis(genesis Block) error {
	if genesis.PrevHash() != GenesisPrevHash {
		return &IntegrityError{Err: ErrInvalidGenesis, Expected: GenesisPrevHash, Got: genesis.PrevHash()}
	}
	if genesis.Index() != 0 {
		return &IntegrityError{Err: ErrInvalidGenesis, Expected: "index 0", Got: fmt.Sprintf("index %d", genesis.Index())}
	}
	if expected := bc.recompute(genesis); genesis.Hash() != expected {
		return &IntegrityError{Err: ErrInvalidGenesis, Expected: expected, Got: genesis.Hash()}
	}
	return nil
}

// validateBlock verifies a block against the previous one: the stored hash
// first, then the link, then index continuity in strict mode.
func (bc *Blockchain) validateBlock(pos int, current, previous Block) error {
	if expected := bc.recompute(current); current.Hash() != expected {
		return &IntegrityError{Position: pos, Err: ErrHashMismatch, Expected: expected, Got: current.Hash()}
	}

	if current.PrevHash() != previous.Hash() {
		return &IntegrityError{Position: pos, Err: ErrBrokenLink, Expected: previous.Hash(), Got: current.PrevHash()}
	}

	if bc.cfg.strict && current.Index() != previous.Index()+1 {
		return &IntegrityError{
			Position: pos,
			Err:      ErrIndexDiscontinuity,
			Expected: fmt.Sprint(previous.Index() + 1),
			Got:      fmt.Sprint(current.Index()),
		}
	}

	return nil
}

// recompute fingerprints b under the chain's scheme, regardless of the scheme
// the block claims.
func (bc *Blockchain) recompute(b Block) string {
	moved, err := b.withScheme(bc.cfg.scheme)
	if err != nil {
		return "unencodable payload (" + err.Error() + ")"
	}
	return moved.CalculateHash()
}
