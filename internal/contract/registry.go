package contract

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/decibling/smart-contracts/internal/adapter"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/logger"
)

// Interface names of the deployed contracts
const (
	ERC20   = "ERC20"
	NFT     = "DeciblingNFT"
	Auction = "DeciblingAuction"
	Staking = "DeciblingStaking"
	Reserve = "DeciblingReserve"
	Faucet  = "DeciblingFaucet"
)

//go:embed abi/*.json
var builtinArtifacts embed.FS

// artifact file -> registry entry
var builtins = []struct {
	file    string
	name    string
	version int
}{
	{"ERC20.json", ERC20, 1},
	{"DeciblingNFT.json", NFT, 1},
	{"DeciblingAuction.json", Auction, 1},
	{"DeciblingAuctionV2.json", Auction, 2},
	{"DeciblingStaking.json", Staking, 1},
	{"DeciblingReserve.json", Reserve, 1},
	{"DeciblingFaucet.json", Faucet, 1},
}

// a trailing V<n> in a contract name selects the interface version
var versionSuffix = regexp.MustCompile(`^(.+?)V(\d+)$`)

// Interface is one version of a contract's ABI
type Interface struct {
	Name    string
	Version int
	ABI     abi.ABI
}

// Bind binds this interface at address
func (i *Interface) Bind(address common.Address, backend Backend) *Contract {
	return Bind(i.Name, address, i.ABI, backend)
}

// Migration converts a decoded state record of one interface version into the next
type Migration func(state map[string]interface{}) (map[string]interface{}, error)

// Registry maps a stable contract name to its versioned interfaces and the
// migrations between adjacent versions
type Registry struct {
	mu         sync.RWMutex
	interfaces map[string]map[int]*Interface
	migrations map[string]map[int]Migration
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		interfaces: make(map[string]map[int]*Interface),
		migrations: make(map[string]map[int]Migration),
	}
}

// DefaultRegistry returns a registry holding the built-in contract interfaces
func DefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, b := range builtins {
		data, err := builtinArtifacts.ReadFile(path.Join("abi", b.file))
		if err != nil {
			return nil, fmt.Errorf("failed to read built-in artifact %s: %w", b.file, err)
		}

		artifact, err := ParseArtifact(data)
		if err != nil {
			return nil, fmt.Errorf("built-in artifact %s: %w", b.file, err)
		}

		if err := r.RegisterABI(b.name, b.version, artifact.ABI); err != nil {
			return nil, err
		}
	}

	if err := r.RegisterMigration(Auction, 1, migrateAuctionV1); err != nil {
		return nil, err
	}

	return r, nil
}

// Register parses abiJSON and adds it as version of name
func (r *Registry) Register(name string, version int, abiJSON string) error {
	parsed, err := abi.JSON(bytes.NewReader([]byte(abiJSON)))
	if err != nil {
		return fmt.Errorf("%w: invalid ABI for %s v%d: %v", domain.ErrInvalidInput, name, version, err)
	}
	return r.RegisterABI(name, version, parsed)
}

// RegisterABI adds an already parsed ABI; registering a version twice is an error
func (r *Registry) RegisterABI(name string, version int, parsed abi.ABI) error {
	if name == "" || version < 1 {
		return fmt.Errorf("%w: interface needs a name and a positive version", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.interfaces[name][version]; ok {
		return fmt.Errorf("%w: %s v%d is already registered", domain.ErrInvalidInput, name, version)
	}
	r.put(name, version, parsed)
	return nil
}

func (r *Registry) put(name string, version int, parsed abi.ABI) {
	if r.interfaces[name] == nil {
		r.interfaces[name] = make(map[int]*Interface)
	}
	r.interfaces[name][version] = &Interface{Name: name, Version: version, ABI: parsed}
}

// Lookup returns a specific version of name
func (r *Registry) Lookup(name string, version int) (*Interface, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	iface, ok := r.interfaces[name][version]
	if !ok {
		return nil, fmt.Errorf("%w: no interface %s v%d", domain.ErrInvalidInput, name, version)
	}
	return iface, nil
}

// Latest returns the highest registered version of name
func (r *Registry) Latest(name string) (*Interface, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *Interface
	for _, iface := range r.interfaces[name] {
		if latest == nil || iface.Version > latest.Version {
			latest = iface
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: no interface %s", domain.ErrInvalidInput, name)
	}
	return latest, nil
}

// Versions lists the registered versions of name in ascending order
func (r *Registry) Versions(name string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := make([]int, 0, len(r.interfaces[name]))
	for v := range r.interfaces[name] {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	return versions
}

// RegisterMigration adds the migration from version `from` of name to from+1
func (r *Registry) RegisterMigration(name string, from int, fn Migration) error {
	if fn == nil {
		return fmt.Errorf("%w: nil migration", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.migrations[name] == nil {
		r.migrations[name] = make(map[int]Migration)
	}
	if _, ok := r.migrations[name][from]; ok {
		return fmt.Errorf("%w: migration %s v%d->v%d is already registered", domain.ErrInvalidInput, name, from, from+1)
	}
	r.migrations[name][from] = fn
	return nil
}

// Migrate walks state forward from version `from` to version `to` one step at a time.
// Every step must be registered before any of them runs.
func (r *Registry) Migrate(name string, from, to int, state map[string]interface{}) (map[string]interface{}, error) {
	if to < from {
		return nil, fmt.Errorf("%w: cannot migrate %s backwards from v%d to v%d", domain.ErrInvalidInput, name, from, to)
	}

	steps := make([]Migration, 0, to-from)
	r.mu.RLock()
	for v := from; v < to; v++ {
		fn, ok := r.migrations[name][v]
		if !ok {
			r.mu.RUnlock()
			return nil, fmt.Errorf("%w: no migration %s v%d->v%d", domain.ErrInvalidInput, name, v, v+1)
		}
		steps = append(steps, fn)
	}
	r.mu.RUnlock()

	current := make(map[string]interface{}, len(state))
	for k, v := range state {
		current[k] = v
	}

	for i, fn := range steps {
		v := from + i
		next, err := fn(current)
		if err != nil {
			return nil, fmt.Errorf("migrate %s v%d->v%d: %w", name, v, v+1, err)
		}
		current = next
	}

	return current, nil
}

// Artifact is the subset of a Hardhat build artifact the registry reads
type Artifact struct {
	ContractName string
	ABI          abi.ABI
}

// ParseArtifact decodes a Hardhat artifact document
func ParseArtifact(data []byte) (*Artifact, error) {
	var raw struct {
		ContractName string          `json:"contractName"`
		ABI          json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid artifact: %v", domain.ErrDecode, err)
	}
	if raw.ContractName == "" || len(raw.ABI) == 0 {
		return nil, fmt.Errorf("%w: artifact is missing contractName or abi", domain.ErrDecode)
	}

	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid abi in artifact %s: %v", domain.ErrDecode, raw.ContractName, err)
	}

	return &Artifact{ContractName: raw.ContractName, ABI: parsed}, nil
}

// LoadArtifact reads a Hardhat artifact from disk
func LoadArtifact(fs adapter.FileSystem, file string) (*Artifact, error) {
	data, err := fs.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", file, err)
	}
	return ParseArtifact(data)
}

// LoadDir registers every artifact in dir, replacing built-in interfaces of the same
// name and version. DeciblingAuctionV2 becomes DeciblingAuction v2.
func (r *Registry) LoadDir(fs adapter.FileSystem, dir string) error {
	files, err := fs.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list artifacts in %s: %w", dir, err)
	}

	for _, file := range files {
		artifact, err := LoadArtifact(fs, file)
		if err != nil {
			return err
		}

		name, version := splitVersion(artifact.ContractName)

		r.mu.Lock()
		r.put(name, version, artifact.ABI)
		r.mu.Unlock()

		logger.Info("Loaded contract artifact",
			zap.String("file", file),
			zap.String("name", name),
			zap.Int("version", version))
	}

	return nil
}

func splitVersion(contractName string) (string, int) {
	if m := versionSuffix.FindStringSubmatch(contractName); m != nil {
		if v, err := strconv.Atoi(m[2]); err == nil && v > 0 {
			return m[1], v
		}
	}
	return contractName, 1
}
