// forge-cli is a command-line client for interacting with a forged node.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/astralis-games/planetforge/config"
	"github.com/astralis-games/planetforge/internal/archive"
	"github.com/astralis-games/planetforge/internal/rpc"
	"github.com/astralis-games/planetforge/internal/rpcclient"
	"github.com/astralis-games/planetforge/internal/wallet"
	"golang.org/x/term"
)

// keystoreDir returns the keystore path matching forged's layout:
// <datadir>/<network>/keystore
func keystoreDir(dataDir, network string) string {
	return filepath.Join(dataDir, network, "keystore")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	rpcURL := "http://127.0.0.1:8899"
	dataDir := config.DefaultDataDir()
	network := "mainnet"

	// Scan for --rpc, --datadir, and --network before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	ksDir := keystoreDir(dataDir, network)
	client := rpcclient.New(rpcURL)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "status":
		cmdStatus(client)
	case "derive":
		cmdDerive(client, cmdArgs)
	case "mint":
		cmdMint(client, cmdArgs)
	case "earn":
		cmdEarn(client, cmdArgs)
	case "planets":
		cmdPlanets(client, cmdArgs)
	case "metadata":
		cmdMetadata(client, cmdArgs)
	case "holdings":
		cmdHoldings(client, cmdArgs)
	case "wallet":
		cmdWallet(cmdArgs, ksDir)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: forge-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         RPC endpoint (default: http://127.0.0.1:8899)
  --datadir <path>    Data directory (default: ~/.planetforge)
  --network <net>     mainnet (default) or devnet

Commands:
  status                          Show node status
  derive <planet-id> [--owner <addr>]
                                  Show the derived addresses for a planet
  mint --planet <id> --name <n> --uri <u> --owner <addr>
       [--metadata <addr>] [--player <p>]
                                  Mint a planet token; with --player the
                                  archive record is updated afterwards
  earn --player <p> --planet <id> --name <n>
       [--color c --temp t --ocean o --gravity g]
                                  Record an earned planet in the archive
  planets --player <p> [--unminted]
                                  List a player's earned planets
  metadata upload --player <p> --planet <id>
                                  Publish the metadata document for a planet
  metadata get (--mint <addr> | --address <addr>)
                                  Show on-ledger metadata for a mint
  holdings <owner>                List token holdings for an owner

  wallet create --name <n>        Create a new wallet
  wallet import --name <n> --mnemonic "..."
                                  Import wallet from mnemonic
  wallet list                     List wallets
  wallet address --wallet <w>     List wallet accounts
  wallet new-account --wallet <w> Derive the next account address
`)
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(client *rpcclient.Client) {
	info, err := client.NodeInfo()
	if err != nil {
		fatal("node_getInfo: %v", err)
	}

	fmt.Printf("Network:          %s\n", info.Network)
	fmt.Printf("Version:          %s\n", info.Version)
	fmt.Printf("Token symbol:     %s\n", info.TokenSymbol)
	fmt.Printf("Forge program:    %s\n", info.ForgeProgram)
	fmt.Printf("Token program:    %s\n", info.TokenProgram)
	fmt.Printf("Metadata program: %s\n", info.MetadataProgram)
	fmt.Printf("Archive:          %v\n", info.ArchiveEnabled)
}

// ── derive ──────────────────────────────────────────────────────────────

func cmdDerive(client *rpcclient.Client, args []string) {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		fatal("Usage: forge-cli derive <planet-id> [--owner <addr>]")
	}
	planetID := args[0]

	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	owner := fs.String("owner", "", "Owner address (adds the holding address)")
	fs.Parse(args[1:])

	result, err := client.Derive(planetID, *owner)
	if err != nil {
		fatal("forge_derive: %v", err)
	}

	fmt.Printf("Planet:    %s\n", result.PlanetID)
	fmt.Printf("Mint:      %s (bump %d)\n", result.Mint, result.MintBump)
	fmt.Printf("Authority: %s (bump %d)\n", result.Authority, result.AuthorityBump)
	fmt.Printf("Metadata:  %s (bump %d)\n", result.Metadata, result.MetadataBump)
	if result.Holding != "" {
		fmt.Printf("Holding:   %s\n", result.Holding)
	}
}

// ── mint ────────────────────────────────────────────────────────────────

func cmdMint(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("mint", flag.ExitOnError)
	planetID := fs.String("planet", "", "Planet identifier")
	name := fs.String("name", "", "Planet name")
	uri := fs.String("uri", "", "Metadata document URI")
	owner := fs.String("owner", "", "Owner address")
	metadata := fs.String("metadata", "", "Metadata account (default: derived)")
	player := fs.String("player", "", "Archive player to mark as minted")
	fs.Parse(args)

	if *planetID == "" || *name == "" || *uri == "" || *owner == "" {
		fatal("Usage: forge-cli mint --planet <id> --name <n> --uri <u> --owner <addr> [--metadata <addr>] [--player <p>]")
	}

	// The caller presents the metadata account; derive it when not
	// given explicitly.
	metadataAccount := *metadata
	if metadataAccount == "" {
		derived, err := client.Derive(*planetID, "")
		if err != nil {
			fatal("forge_derive: %v", err)
		}
		metadataAccount = derived.Metadata
	}

	receipt, err := client.Mint(rpc.ForgeMintParam{
		PlanetID:        *planetID,
		Name:            *name,
		URI:             *uri,
		Owner:           *owner,
		MetadataAccount: metadataAccount,
	})
	if err != nil {
		fatal("forge_mint: %v", err)
	}

	fmt.Printf("Minted %s (%s)\n", receipt.Name, receipt.Symbol)
	fmt.Printf("  Mint:      %s\n", receipt.Mint)
	fmt.Printf("  Holding:   %s\n", receipt.Holding)
	fmt.Printf("  Metadata:  %s\n", receipt.Metadata)
	fmt.Printf("  Owner:     %s\n", receipt.Owner)
	fmt.Printf("  Signature: %s\n", receipt.Signature)

	if *player != "" {
		if _, err := client.MarkMinted(rpc.ArchiveMarkMintedParam{
			Player:      *player,
			PlanetID:    *planetID,
			Mint:        receipt.Mint.String(),
			Signature:   receipt.Signature.String(),
			MetadataURI: receipt.URI,
		}); err != nil {
			fatal("archive_markMinted: %v", err)
		}
		fmt.Printf("Archive record updated for %s\n", *player)
	}
}

// ── earn ────────────────────────────────────────────────────────────────

func cmdEarn(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("earn", flag.ExitOnError)
	player := fs.String("player", "", "Player identifier")
	planetID := fs.String("planet", "", "Planet identifier")
	name := fs.String("name", "", "Planet name")
	color := fs.String("color", "", "Planet color")
	temp := fs.Float64("temp", 0, "Average temperature")
	ocean := fs.Float64("ocean", 0, "Ocean coverage (0-1)")
	gravity := fs.Float64("gravity", 0, "Surface gravity")
	fs.Parse(args)

	if *player == "" || *planetID == "" || *name == "" {
		fatal("Usage: forge-cli earn --player <p> --planet <id> --name <n> [--color c --temp t --ocean o --gravity g]")
	}

	rec, err := client.EarnPlanet(rpc.ArchiveEarnParam{
		Player:     *player,
		PlanetID:   *planetID,
		PlanetName: *name,
		Traits: archive.Traits{
			Color:         *color,
			AvgTemp:       *temp,
			OceanCoverage: *ocean,
			Gravity:       *gravity,
		},
	})
	if err != nil {
		fatal("archive_earn: %v", err)
	}

	fmt.Printf("Recorded %s for %s (earned %s)\n",
		rec.PlanetName, rec.Player, rec.EarnedAt.Format("2006-01-02 15:04:05 UTC"))
}

// ── planets ─────────────────────────────────────────────────────────────

func cmdPlanets(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("planets", flag.ExitOnError)
	player := fs.String("player", "", "Player identifier")
	unminted := fs.Bool("unminted", false, "Only planets not yet minted")
	fs.Parse(args)

	if *player == "" {
		fatal("Usage: forge-cli planets --player <p> [--unminted]")
	}

	var (
		list *rpc.ArchiveListResult
		err  error
	)
	if *unminted {
		list, err = client.ListUnminted(*player)
	} else {
		list, err = client.ListEarned(*player)
	}
	if err != nil {
		fatal("archive list: %v", err)
	}

	if list.Count == 0 {
		fmt.Println("No planets found.")
		return
	}

	for _, rec := range list.Records {
		status := "unminted"
		if rec.Minted {
			status = "minted " + rec.Mint.String()
		}
		fmt.Printf("  %-24s %-20s %s\n", rec.PlanetID, rec.PlanetName, status)
	}
}

// ── metadata ────────────────────────────────────────────────────────────

func cmdMetadata(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: forge-cli metadata <upload|get> [flags]")
	}

	switch args[0] {
	case "upload":
		cmdMetadataUpload(client, args[1:])
	case "get":
		cmdMetadataGet(client, args[1:])
	default:
		fatal("Unknown metadata command: %s\nUsage: forge-cli metadata <upload|get> [flags]", args[0])
	}
}

func cmdMetadataUpload(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("metadata upload", flag.ExitOnError)
	player := fs.String("player", "", "Player identifier")
	planetID := fs.String("planet", "", "Planet identifier")
	fs.Parse(args)

	if *player == "" || *planetID == "" {
		fatal("Usage: forge-cli metadata upload --player <p> --planet <id>")
	}

	result, err := client.UploadMetadata(*player, *planetID)
	if err != nil {
		fatal("archive_uploadMetadata: %v", err)
	}

	fmt.Printf("Metadata published: %s\n", result.URI)
}

func cmdMetadataGet(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("metadata get", flag.ExitOnError)
	mint := fs.String("mint", "", "Mint address")
	address := fs.String("address", "", "Metadata account address")
	fs.Parse(args)

	if *mint == "" && *address == "" {
		fatal("Usage: forge-cli metadata get (--mint <addr> | --address <addr>)")
	}

	meta, err := client.GetMetadata(rpc.MetadataParam{
		Mint:    *mint,
		Address: *address,
	})
	if err != nil {
		fatal("registry_getMetadata: %v", err)
	}

	fmt.Printf("Name:     %s\n", meta.Name)
	fmt.Printf("Symbol:   %s\n", meta.Symbol)
	fmt.Printf("URI:      %s\n", meta.URI)
	fmt.Printf("Mint:     %s\n", meta.Mint)
	fmt.Printf("Account:  %s\n", meta.Address)
	fmt.Printf("Royalty:  %d bps\n", meta.SellerFeeBasisPoints)
	fmt.Printf("Mutable:  %v\n", meta.IsMutable)
}

// ── holdings ────────────────────────────────────────────────────────────

func cmdHoldings(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: forge-cli holdings <owner>")
	}

	list, err := client.HoldingsByOwner(args[0])
	if err != nil {
		fatal("ledger_getHoldingsByOwner: %v", err)
	}

	if list.Count == 0 {
		fmt.Println("No holdings found.")
		return
	}

	for _, h := range list.Holdings {
		fmt.Printf("  %s  mint %s  amount %d\n", h.Address, h.Mint, h.Amount)
	}
}

// ── wallet ──────────────────────────────────────────────────────────────

func cmdWallet(args []string, ksDir string) {
	if len(args) < 1 {
		fatal("Usage: forge-cli wallet <create|import|list|address|new-account> [flags]")
	}

	switch args[0] {
	case "create":
		cmdWalletCreate(args[1:], ksDir)
	case "import":
		cmdWalletImport(args[1:], ksDir)
	case "list":
		cmdWalletList(ksDir)
	case "address":
		cmdWalletAddress(args[1:], ksDir)
	case "new-account":
		cmdWalletNewAccount(args[1:], ksDir)
	default:
		fatal("Unknown wallet command: %s\nUsage: forge-cli wallet <create|import|list|address|new-account> [flags]", args[0])
	}
}

func cmdWalletCreate(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet create", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: forge-cli wallet create --name <name>")
	}

	// Generate mnemonic.
	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	// Prompt for password (twice).
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}

	createWallet(ksDir, *name, seed, password)
}

func cmdWalletImport(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet import", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic (24 words)")
	fs.Parse(args)

	if *name == "" || *mnemonic == "" {
		fatal("Usage: forge-cli wallet import --name <name> --mnemonic \"word1 word2 ...\"")
	}

	if !wallet.ValidateMnemonic(*mnemonic) {
		fatal("invalid mnemonic")
	}

	// Prompt for password (twice).
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	seed, err := wallet.SeedFromMnemonic(*mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}

	createWallet(ksDir, *name, seed, password)
}

// createWallet stores the seed and derives account 0.
func createWallet(ksDir, name string, seed, password []byte) {
	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	if err := ks.Create(name, seed, password, wallet.DefaultParams()); err != nil {
		fatal("create wallet: %v", err)
	}

	master, err := wallet.NewMasterKey(seed)
	for i := range seed {
		seed[i] = 0
	}
	if err != nil {
		fatal("derive master key: %v", err)
	}
	defer master.Zero()

	key, err := master.DeriveAccount(0)
	if err != nil {
		fatal("derive account: %v", err)
	}
	defer key.Zero()

	addr, err := key.Address()
	if err != nil {
		fatal("derive address: %v", err)
	}

	if err := ks.AddAccount(name, wallet.AccountEntry{
		Index:   0,
		Name:    "default",
		Address: addr.String(),
	}); err != nil {
		fatal("record account: %v", err)
	}

	fmt.Printf("Wallet %q created.\n", name)
	fmt.Printf("  [0] %s\n", addr)
}

func cmdWalletList(ksDir string) {
	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	names, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}

	if len(names) == 0 {
		fmt.Println("No wallets found.")
		return
	}

	for _, name := range names {
		fmt.Println(name)
	}
}

func cmdWalletAddress(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet address", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	fs.Parse(args)

	if *walletName == "" {
		fatal("Usage: forge-cli wallet address --wallet <name>")
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	accounts, err := ks.ListAccounts(*walletName)
	if err != nil {
		fatal("list accounts: %v", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No accounts found.")
		return
	}

	for _, acct := range accounts {
		fmt.Printf("  [%d] %s\n", acct.Index, acct.Address)
	}
}

func cmdWalletNewAccount(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet new-account", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	acctName := fs.String("name", "", "Account label")
	fs.Parse(args)

	if *walletName == "" {
		fatal("Usage: forge-cli wallet new-account --wallet <name> [--name <label>]")
	}

	// Prompt for password.
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	seed, err := ks.Load(*walletName, password)
	if err != nil {
		fatal("load wallet: %v", err)
	}

	master, err := wallet.NewMasterKey(seed)
	for i := range seed {
		seed[i] = 0
	}
	if err != nil {
		fatal("derive master key: %v", err)
	}
	defer master.Zero()

	index, err := ks.NextAccountIndex(*walletName)
	if err != nil {
		fatal("next account index: %v", err)
	}

	key, err := master.DeriveAccount(index)
	if err != nil {
		fatal("derive account: %v", err)
	}
	defer key.Zero()

	addr, err := key.Address()
	if err != nil {
		fatal("derive address: %v", err)
	}

	label := *acctName
	if label == "" {
		label = "account-" + strconv.FormatUint(uint64(index), 10)
	}

	if err := ks.AddAccount(*walletName, wallet.AccountEntry{
		Index:   index,
		Name:    label,
		Address: addr.String(),
	}); err != nil {
		fatal("record account: %v", err)
	}

	fmt.Printf("  [%d] %s\n", index, addr)
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
