// Command stakepool is a host harness for the staking-pool ledger: it owns
// the key material, allocates accounts, verifies signatures and feeds signed
// instructions to the dispatcher, playing the role the chain runtime plays in
// production.
package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/solbound-dev/stakepool/internal/account"
	"github.com/solbound-dev/stakepool/internal/crypto"
	"github.com/solbound-dev/stakepool/internal/instruction"
	"github.com/solbound-dev/stakepool/internal/pool"
	"github.com/solbound-dev/stakepool/internal/staking"
	"github.com/solbound-dev/stakepool/internal/store"
	"github.com/solbound-dev/stakepool/pkg/db/pebble"
	"github.com/solbound-dev/stakepool/pkg/log"
)

// Well-known addresses of the single deployed pool.
var (
	programID     = crypto.Identity(crypto.HashData([]byte("stakepool/program")))
	poolKey       = crypto.Identity(crypto.HashData([]byte("stakepool/pool")))
	stakeCustody  = crypto.Identity(crypto.HashData([]byte("stakepool/custody/stake")))
	rewardCustody = crypto.Identity(crypto.HashData([]byte("stakepool/custody/reward")))
)

type keyFile struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

func main() {
	log.Init(log.Options{LogLevel: zerolog.InfoLevel, Type: log.ConsoleLogger})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "keygen":
		err = cmdKeygen(os.Args[2:])
	case "init":
		err = cmdInit(os.Args[2:])
	case "deposit":
		err = cmdAmountOp(os.Args[2:], instruction.OpDeposit)
	case "withdraw":
		err = cmdAmountOp(os.Args[2:], instruction.OpWithdraw)
	case "start-epoch":
		err = cmdStartEpoch(os.Args[2:])
	case "claim":
		err = cmdClaim(os.Args[2:])
	case "mint":
		err = cmdMint(os.Args[2:])
	case "show":
		err = cmdShow(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.CLI.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: stakepool <keygen|init|deposit|withdraw|start-epoch|claim|mint|show> [flags]")
}

func cmdKeygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	out := fs.String("out", "key.json", "file to write the keypair to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pub, prv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(keyFile{
		PublicKey:  hex.EncodeToString(pub),
		PrivateKey: hex.EncodeToString(prv),
	}, "", "	")
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return err
	}
	log.CLI.Info().Str("file", *out).Str("identity", hex.EncodeToString(pub)).Msg("keypair written")
	return nil
}

func loadKey(path string) (crypto.Identity, ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return crypto.Identity{}, nil, fmt.Errorf("read key file: %w", err)
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return crypto.Identity{}, nil, fmt.Errorf("parse key file: %w", err)
	}
	id, err := crypto.IdentityFromHex(kf.PublicKey)
	if err != nil {
		return crypto.Identity{}, nil, fmt.Errorf("parse public key: %w", err)
	}
	prv, err := hex.DecodeString(kf.PrivateKey)
	if err != nil || len(prv) != ed25519.PrivateKeySize {
		return crypto.Identity{}, nil, fmt.Errorf("key file holds no usable private key")
	}
	return id, ed25519.PrivateKey(prv), nil
}

// host opens the store and wires the dispatcher the way the runtime would.
type host struct {
	kv        *pebble.KVStore
	accounts  *store.Accounts
	balances  *store.Balances
	processor *staking.Processor
}

func openHost(path string) (*host, error) {
	kv, err := pebble.NewPersistentKVStore(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	accounts := store.NewAccounts(kv)
	balances := store.NewBalances(kv)
	return &host{
		kv:        kv,
		accounts:  accounts,
		balances:  balances,
		processor: staking.NewProcessor(programID, poolKey, accounts, balances),
	}, nil
}

func (h *host) close() {
	if err := h.kv.Close(); err != nil {
		log.CLI.Warn().Err(err).Msg("closing store")
	}
}

// signedAccount verifies a fresh signature over the instruction bytes and
// asserts the result to the ledger, exactly as the runtime would.
func signedAccount(id crypto.Identity, prv ed25519.PrivateKey, instrBytes []byte) *account.Account {
	sig := ed25519.Sign(prv, instrBytes)
	return &account.Account{Key: id, Signer: crypto.VerifySignature(id, instrBytes, sig)}
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", "stakepool.db", "store directory")
	keyPath := fs.String("key", "key.json", "pool owner keypair")
	stakeAsset := fs.String("stake-asset", "", "hex asset id staked into the pool (default: derived)")
	rewardAsset := fs.String("reward-asset", "", "hex asset id paid as rewards (default: derived)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	owner, prv, err := loadKey(*keyPath)
	if err != nil {
		return err
	}
	instr := instruction.Instruction{
		Op:          instruction.OpInitialize,
		HasAssets:   true,
		StakeAsset:  crypto.AssetID(crypto.HashData([]byte("stakepool/asset/stake"))),
		RewardAsset: crypto.AssetID(crypto.HashData([]byte("stakepool/asset/reward"))),
	}
	if *stakeAsset != "" {
		id, err := crypto.IdentityFromHex(*stakeAsset)
		if err != nil {
			return fmt.Errorf("parse stake asset: %w", err)
		}
		instr.StakeAsset = crypto.AssetID(id)
	}
	if *rewardAsset != "" {
		id, err := crypto.IdentityFromHex(*rewardAsset)
		if err != nil {
			return fmt.Errorf("parse reward asset: %w", err)
		}
		instr.RewardAsset = crypto.AssetID(id)
	}

	h, err := openHost(*dbPath)
	if err != nil {
		return err
	}
	defer h.close()

	// the account-creation step the runtime performs before the program runs
	if err := h.accounts.Allocate(poolKey, programID, pool.PoolRecordSize); err != nil {
		return err
	}

	data := instr.Bytes()
	if err := h.processor.Process(data, []*account.Account{signedAccount(owner, prv, data)}); err != nil {
		return err
	}
	log.CLI.Info().Str("owner", owner.String()).Msg("pool initialized")
	return nil
}

func cmdAmountOp(args []string, op instruction.Opcode) error {
	fs := flag.NewFlagSet(op.String(), flag.ExitOnError)
	dbPath := fs.String("db", "stakepool.db", "store directory")
	keyPath := fs.String("key", "key.json", "participant keypair")
	amount := fs.Uint64("amount", 0, "token amount")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, prv, err := loadKey(*keyPath)
	if err != nil {
		return err
	}
	h, err := openHost(*dbPath)
	if err != nil {
		return err
	}
	defer h.close()

	data := instruction.Instruction{Op: op, Amount: *amount}.Bytes()
	accs := []*account.Account{
		signedAccount(user, prv, data),
		{Key: stakeCustody},
		{Key: account.DerivePositionKey(programID, poolKey, user)},
	}
	if err := h.processor.Process(data, accs); err != nil {
		return err
	}
	log.CLI.Info().Str("op", op.String()).Uint64("amount", *amount).Msg("ok")
	return nil
}

func cmdStartEpoch(args []string) error {
	fs := flag.NewFlagSet("start-epoch", flag.ExitOnError)
	dbPath := fs.String("db", "stakepool.db", "store directory")
	keyPath := fs.String("key", "key.json", "pool owner keypair")
	start := fs.Uint64("start", 0, "epoch start time")
	end := fs.Uint64("end", 0, "epoch end time")
	rewardAmount := fs.Uint64("reward", 0, "total reward for the epoch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	owner, prv, err := loadKey(*keyPath)
	if err != nil {
		return err
	}
	h, err := openHost(*dbPath)
	if err != nil {
		return err
	}
	defer h.close()

	data := instruction.Instruction{
		Op:           instruction.OpStartEpoch,
		StartTime:    *start,
		EndTime:      *end,
		RewardAmount: *rewardAmount,
	}.Bytes()
	if err := h.processor.Process(data, []*account.Account{signedAccount(owner, prv, data)}); err != nil {
		return err
	}
	log.CLI.Info().Uint64("start", *start).Uint64("end", *end).Msg("epoch started")
	return nil
}

func cmdClaim(args []string) error {
	fs := flag.NewFlagSet("claim", flag.ExitOnError)
	dbPath := fs.String("db", "stakepool.db", "store directory")
	keyPath := fs.String("key", "key.json", "participant keypair")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, prv, err := loadKey(*keyPath)
	if err != nil {
		return err
	}
	h, err := openHost(*dbPath)
	if err != nil {
		return err
	}
	defer h.close()

	data := instruction.Instruction{Op: instruction.OpClaim}.Bytes()
	accs := []*account.Account{
		signedAccount(user, prv, data),
		{Key: rewardCustody},
		{Key: account.DerivePositionKey(programID, poolKey, user)},
	}
	if err := h.processor.Process(data, accs); err != nil {
		return err
	}
	log.CLI.Info().Msg("reward claimed")
	return nil
}

func cmdMint(args []string) error {
	fs := flag.NewFlagSet("mint", flag.ExitOnError)
	dbPath := fs.String("db", "stakepool.db", "store directory")
	asset := fs.String("asset", "", "hex asset id (default: the pool's stake asset)")
	to := fs.String("to", "", "hex identity to credit")
	reward := fs.Bool("reward-custody", false, "credit the reward custody account instead of -to")
	amount := fs.Uint64("amount", 0, "token amount")
	if err := fs.Parse(args); err != nil {
		return err
	}

	h, err := openHost(*dbPath)
	if err != nil {
		return err
	}
	defer h.close()

	record, err := h.processor.Pool()
	if err != nil {
		return err
	}

	assetID := record.StakeAsset
	holder := crypto.Identity{}
	if *reward {
		assetID = record.RewardAsset
		holder = rewardCustody
	} else if *to != "" {
		holder, err = crypto.IdentityFromHex(*to)
		if err != nil {
			return fmt.Errorf("parse -to: %w", err)
		}
	} else {
		return fmt.Errorf("mint wants -to or -reward-custody")
	}
	if *asset != "" {
		id, err := crypto.IdentityFromHex(*asset)
		if err != nil {
			return fmt.Errorf("parse -asset: %w", err)
		}
		assetID = crypto.AssetID(id)
	}

	if err := h.balances.Mint(assetID, holder, *amount); err != nil {
		return err
	}
	log.CLI.Info().Str("holder", holder.String()).Uint64("amount", *amount).Msg("minted")
	return nil
}

func cmdShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	dbPath := fs.String("db", "stakepool.db", "store directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	h, err := openHost(*dbPath)
	if err != nil {
		return err
	}
	defer h.close()

	record, err := h.processor.Pool()
	if err != nil {
		return err
	}

	fmt.Printf("pool %s\n", poolKey)
	fmt.Printf("  initialized:  %v\n", record.Initialized)
	fmt.Printf("  owner:        %s\n", record.Owner)
	fmt.Printf("  stake asset:  %s\n", record.StakeAsset)
	fmt.Printf("  reward asset: %s\n", record.RewardAsset)
	fmt.Printf("  total staked: %d\n", record.TotalStaked)
	fmt.Printf("  epoch:        %d [%d, %d) reward %d\n",
		record.EpochID, record.EpochStart, record.EpochEnd, record.EpochReward)

	fmt.Println("stake balances:")
	err = h.balances.ForEach(record.StakeAsset, func(holder crypto.Identity, amount uint64) error {
		fmt.Printf("  %s  %d\n", holder, amount)
		return nil
	})
	return err
}
