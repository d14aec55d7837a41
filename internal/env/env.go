package env

import (
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// environment variables
const (
	VarRpcURL          = "STARKNET_RPC_URL"
	VarPrivateKey      = "STARKNET_PRIVATE_KEY"
	VarAccountAddress  = "STARKNET_ACCOUNT_ADDRESS"
	VarContractAddress = "STARKNET_CONTRACT_ADDRESS"
	VarPublicKey       = "STARKNET_PUBLIC_KEY"
	VarChainID         = "STARKNET_CHAIN_ID"
	VarCairoVersion    = "STARKNET_CAIRO_VERSION"
)

// defaults
const (
	DefaultEnvFile      = ".env"
	DefaultTomlFile     = ".config.toml"
	DefaultChainID      = "SN_SEPOLIA"
	DefaultCairoVersion = 2
)

// errors
var (
	ErrMissingVariable     = errors.New("missing variable")
	ErrInvalidFelt         = errors.New("invalid felt")
	ErrInvalidURL          = errors.New("invalid RPC url")
	ErrInvalidCairoVersion = errors.New("invalid cairo version")
)

// Context - everything needed to sign and send transactions on behalf of a single-owner account
type Context struct {
	RpcURL          string
	PrivateKey      *felt.Felt
	AccountAddress  *felt.Felt
	ContractAddress *felt.Felt
	PublicKey       string
	ChainID         string
	CairoVersion    int
}

// Options - locations of optional configuration files. Empty path disables the source.
type Options struct {
	EnvFile  string
	TomlFile string
}

// DefaultOptions -
func DefaultOptions() Options {
	return Options{
		EnvFile:  DefaultEnvFile,
		TomlFile: DefaultTomlFile,
	}
}

// File - layout of `.config.toml`
type File struct {
	Starknet Starknet `toml:"starknet"`
}

// Starknet -
type Starknet struct {
	RpcURL          string `toml:"rpc_url"`
	PrivateKey      string `toml:"private_key"`
	AccountAddress  string `toml:"account_address"`
	ContractAddress string `toml:"contract_address"`
	PublicKey       string `toml:"public_key"`
	ChainID         string `toml:"chain_id"`
	CairoVersion    int    `toml:"cairo_version"`
}

type raw struct {
	RpcURL          string `validate:"required,url"`
	PrivateKey      string `validate:"required,startswith=0x,hexadecimal"`
	AccountAddress  string `validate:"required,startswith=0x,hexadecimal"`
	ContractAddress string `validate:"omitempty,startswith=0x,hexadecimal"`
}

var validate = validator.New()

// Load - reads starknet context. Environment variables take precedence over `.config.toml`.
func Load(opts Options) (Context, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Context{}, err
	}

	file, err := loadTomlFile(opts.TomlFile)
	if err != nil {
		return Context{}, err
	}

	values := raw{
		RpcURL:          lookup(VarRpcURL, file.Starknet.RpcURL),
		PrivateKey:      lookup(VarPrivateKey, file.Starknet.PrivateKey),
		AccountAddress:  lookup(VarAccountAddress, file.Starknet.AccountAddress),
		ContractAddress: lookup(VarContractAddress, file.Starknet.ContractAddress),
	}
	if err := validateRaw(values); err != nil {
		return Context{}, err
	}

	ctx := Context{
		RpcURL:    values.RpcURL,
		PublicKey: lookup(VarPublicKey, file.Starknet.PublicKey),
		ChainID:   lookup(VarChainID, file.Starknet.ChainID),
	}
	if ctx.ChainID == "" {
		ctx.ChainID = DefaultChainID
	}

	ctx.CairoVersion, err = cairoVersion(lookup(VarCairoVersion, ""), file.Starknet.CairoVersion)
	if err != nil {
		return Context{}, err
	}

	if ctx.PrivateKey, err = ParseFelt(VarPrivateKey, values.PrivateKey); err != nil {
		return Context{}, err
	}
	if ctx.AccountAddress, err = ParseFelt(VarAccountAddress, values.AccountAddress); err != nil {
		return Context{}, err
	}
	if values.ContractAddress != "" {
		if ctx.ContractAddress, err = ParseFelt(VarContractAddress, values.ContractAddress); err != nil {
			return Context{}, err
		}
	}
	if ctx.PublicKey == "" {
		ctx.PublicKey = ctx.AccountAddress.String()
	}

	return ctx, nil
}

// RequireContract -
func (c Context) RequireContract() error {
	if c.ContractAddress == nil {
		return errors.Wrap(ErrMissingVariable, VarContractAddress)
	}
	return nil
}

// ParseFelt - parses hex string into felt. `name` is used in error message.
func ParseFelt(name, value string) (*felt.Felt, error) {
	f, err := utils.HexToFelt(strings.TrimSpace(value))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFelt, "%s: %s", name, err.Error())
	}
	return f, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, path)
	}
	// godotenv.Load never overrides variables which are already set
	if err := godotenv.Load(path); err != nil {
		return errors.Wrap(err, path)
	}
	log.Debug().Str("file", path).Msg("environment file loaded")
	return nil
}

func loadTomlFile(path string) (File, error) {
	var file File
	if path == "" {
		return file, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return file, nil
		}
		return file, errors.Wrap(err, path)
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return file, errors.Wrap(err, path)
	}
	log.Debug().Str("file", path).Msg("toml config loaded")
	return file, nil
}

func lookup(name, fallback string) string {
	if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(fallback)
}

func cairoVersion(fromEnv string, fromFile int) (int, error) {
	version := DefaultCairoVersion
	switch {
	case fromEnv != "":
		v, err := strconv.Atoi(fromEnv)
		if err != nil {
			return 0, errors.Wrap(ErrInvalidCairoVersion, fromEnv)
		}
		version = v
	case fromFile != 0:
		version = fromFile
	}

	if version < 0 || version > 2 {
		return 0, errors.Wrapf(ErrInvalidCairoVersion, "%d", version)
	}
	return version, nil
}

func validateRaw(values raw) error {
	err := validate.Struct(values)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	for _, fe := range validationErrors {
		name := variableName(fe.Field())
		switch fe.Tag() {
		case "required":
			return errors.Wrap(ErrMissingVariable, name)
		case "url":
			return errors.Wrap(ErrInvalidURL, name)
		default:
			return errors.Wrap(ErrInvalidFelt, name)
		}
	}
	return err
}

func variableName(field string) string {
	switch field {
	case "RpcURL":
		return VarRpcURL
	case "PrivateKey":
		return VarPrivateKey
	case "AccountAddress":
		return VarAccountAddress
	case "ContractAddress":
		return VarContractAddress
	}
	return field
}

// Host - returns RPC host without credentials or path which is safe for logging
func (c Context) Host() string {
	u, err := url.Parse(c.RpcURL)
	if err != nil {
		return ""
	}
	return u.Host
}
