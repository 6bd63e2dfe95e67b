package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"xdao.co/sig448/cidutil"
	"xdao.co/sig448/keys"
	"xdao.co/sig448/sig448"
	"xdao.co/sig448/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "sign":
		return cmdSign(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "hex":
		return cmdHex(args[1:], out, errOut)
	case "msg-cid":
		return cmdMsgCID(args[1:], out, errOut)
	case "sigs":
		return cmdSigs(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "xdao-sig448: Ed448 signatures as hex text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xdao-sig448 key init --name <name> [--seed-hex <114hex>] [--force]")
	fmt.Fprintln(w, "  xdao-sig448 key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  xdao-sig448 key list")
	fmt.Fprintln(w, "  xdao-sig448 key export --name <name> [--role <role>]")
	fmt.Fprintln(w, "  xdao-sig448 sign (--seed-hex <114hex> | --signer <name> [--signer-role <role>] | --key-file <path>) [--context <c>] [--upper] [--store <dir>] <file>")
	fmt.Fprintln(w, "  xdao-sig448 verify (--issuer-key ed448:<hex> | --signer <name> [--signer-role <role>]) --sig <228hex> [--context <c>] <file>")
	fmt.Fprintln(w, "  xdao-sig448 hex [--upper] <228hex>")
	fmt.Fprintln(w, "  xdao-sig448 msg-cid <file>")
	fmt.Fprintln(w, "  xdao-sig448 sigs --store <dir> <cid>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - --seed-hex must be 57 bytes (114 hex chars) ed448 seed")
	fmt.Fprintln(w, "  - keys live under $XDAO_SIG448_KEYS or ~/.xdao/sig448/keys unless --keys-dir is set")
	fmt.Fprintln(w, "  - signatures are 228 hex chars, all lowercase or all uppercase")
	fmt.Fprintln(w, "  - every subcommand accepts --verbose for debug logs on stderr")
}

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	keysDir string
	verbose bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.keysDir, "keys-dir", "", "Key directory (default $XDAO_SIG448_KEYS or ~/.xdao/sig448/keys)")
	fs.BoolVar(&c.verbose, "verbose", false, "Debug logging on stderr")
}

func (c *commonFlags) logger(errOut io.Writer) *zap.Logger {
	return newLogger(errOut, c.verbose)
}

// signerFlags select a signing or verifying key.
type signerFlags struct {
	seedHex    string
	signer     string
	signerRole string
	keyFile    string
}

func (s *signerFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.seedHex, "seed-hex", "", "Ed448 seed as 114 hex chars")
	fs.StringVar(&s.signer, "signer", "", "Stored key name")
	fs.StringVar(&s.signerRole, "signer-role", "", "Optional role of --signer")
	fs.StringVar(&s.keyFile, "key-file", "", "Path to a hex seed file")
}

// label names the signer in the signature store.
func (s *signerFlags) label(seed []byte) string {
	if s.signer != "" {
		if s.signerRole != "" {
			return s.signer + "@" + s.signerRole
		}
		return s.signer
	}
	pub, err := keys.PublicKeyFromSeed(seed)
	if err != nil {
		return "anonymous"
	}
	return "ed448-" + hex.EncodeToString(pub[:8])
}

func cmdSign(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var common commonFlags
	var signer signerFlags
	var context string
	var upper bool
	var storeDir string
	common.register(fs)
	signer.register(fs)
	fs.StringVar(&context, "context", "", "Ed448 context string (max 255 bytes)")
	fs.BoolVar(&upper, "upper", false, "Print the signature in uppercase hex")
	fs.StringVar(&storeDir, "store", "", "Optional signature store directory")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: xdao-sig448 sign [flags] <file>")
		return 2
	}
	log := common.logger(errOut)
	defer func() { _ = log.Sync() }()

	ks, err := keys.CreateKeyStore(common.keysDir)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	seed, err := ks.LoadSeed(signer.seedHex, signer.signer, signer.signerRole, signer.keyFile)
	if err != nil {
		fmt.Fprintf(errOut, "load signer: %v\n", err)
		return 1
	}
	path := fs.Arg(0)
	msg, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return 1
	}

	sig, err := keys.Sign(seed, msg, context)
	if err != nil {
		fmt.Fprintf(errOut, "sign: %v\n", err)
		return 1
	}
	c := sig448.Lower
	if upper {
		c = sig448.Upper
	}
	log.Debug("signed message",
		zap.String("file", filepath.Base(path)),
		zap.String("cid", cidutil.CIDv1RawSHA256(msg)),
		zap.Stringer("case", c))

	if storeDir != "" {
		store, err := localfs.New(storeDir)
		if err != nil {
			fmt.Fprintf(errOut, "open store: %v\n", err)
			return 1
		}
		id, err := store.Put(msg)
		if err != nil {
			fmt.Fprintf(errOut, "store message: %v\n", err)
			return 1
		}
		label := signer.label(seed)
		if err := store.PutSignature(id, label, sig); err != nil {
			fmt.Fprintf(errOut, "store signature: %v\n", err)
			return 1
		}
		log.Debug("stored signature", zap.Stringer("cid", id), zap.String("signer", label))
	}

	_, _ = fmt.Fprintln(out, string(sig.AppendHex(nil, c)))
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var common commonFlags
	var issuerKey string
	var signer string
	var signerRole string
	var sigHex string
	var context string
	common.register(fs)
	fs.StringVar(&issuerKey, "issuer-key", "", "Issuer key as ed448:<hex>")
	fs.StringVar(&signer, "signer", "", "Stored key name to verify against")
	fs.StringVar(&signerRole, "signer-role", "", "Optional role of --signer")
	fs.StringVar(&sigHex, "sig", "", "Signature as 228 hex chars")
	fs.StringVar(&context, "context", "", "Ed448 context string")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: xdao-sig448 verify [flags] <file>")
		return 2
	}
	if sigHex == "" {
		fmt.Fprintln(errOut, "missing --sig")
		return 2
	}
	if issuerKey == "" && signer == "" {
		fmt.Fprintln(errOut, "missing --issuer-key or --signer")
		return 2
	}
	log := common.logger(errOut)
	defer func() { _ = log.Sync() }()

	if issuerKey == "" {
		ks, err := keys.CreateKeyStore(common.keysDir)
		if err != nil {
			fmt.Fprintf(errOut, "keys: %v\n", err)
			return 1
		}
		issuerKey, err = ks.ExportKey(signer, signerRole)
		if err != nil {
			fmt.Fprintf(errOut, "export key: %v\n", err)
			return 1
		}
	}
	pub, err := keys.ParseIssuerKey(issuerKey)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --issuer-key: %v\n", err)
		return 2
	}
	sig, err := sig448.ParseHex(sigHex)
	if err != nil {
		log.Debug("signature rejected", zap.String("rule", sig448.RuleID(err)), zap.Error(err))
		fmt.Fprintf(errOut, "invalid --sig: %v\n", err)
		return 2
	}

	path := fs.Arg(0)
	msg, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return 1
	}
	if !keys.Verify(pub, msg, sig, context) {
		log.Debug("verification failed", zap.String("cid", cidutil.CIDv1RawSHA256(msg)))
		fmt.Fprintln(errOut, "signature invalid")
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

func cmdHex(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("hex", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var common commonFlags
	var upper bool
	common.register(fs)
	fs.BoolVar(&upper, "upper", false, "Print uppercase hex (default lowercase)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: xdao-sig448 hex [--upper] <228hex>")
		return 2
	}
	log := common.logger(errOut)
	defer func() { _ = log.Sync() }()

	sig, err := sig448.ParseHex(fs.Arg(0))
	if err != nil {
		log.Debug("signature rejected", zap.String("rule", sig448.RuleID(err)), zap.Error(err))
		fmt.Fprintf(errOut, "invalid signature: %v\n", err)
		return 1
	}
	if upper {
		_, _ = fmt.Fprintf(out, "%X\n", sig)
	} else {
		_, _ = fmt.Fprintf(out, "%x\n", sig)
	}
	return 0
}

func cmdMsgCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("msg-cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: xdao-sig448 msg-cid <file>")
		return 2
	}
	path := fs.Arg(0)
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return 1
	}
	_, _ = fmt.Fprintln(out, cidutil.CIDv1RawSHA256(b))
	return 0
}

func cmdSigs(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("sigs", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var common commonFlags
	var storeDir string
	var upper bool
	common.register(fs)
	fs.StringVar(&storeDir, "store", "", "Signature store directory")
	fs.BoolVar(&upper, "upper", false, "Print uppercase hex")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if storeDir == "" || fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: xdao-sig448 sigs --store <dir> <cid>")
		return 2
	}
	log := common.logger(errOut)
	defer func() { _ = log.Sync() }()

	id, err := cidutil.Parse(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid cid: %v\n", err)
		return 2
	}
	store, err := localfs.New(storeDir)
	if err != nil {
		fmt.Fprintf(errOut, "open store: %v\n", err)
		return 1
	}
	sigs, err := store.Signatures(id)
	if err != nil {
		fmt.Fprintf(errOut, "list signatures: %v\n", err)
		return 1
	}
	log.Debug("listed signatures", zap.Stringer("cid", id), zap.Int("count", len(sigs)))

	names := make([]string, 0, len(sigs))
	for name := range sigs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if upper {
			fmt.Fprintf(out, "%s %X\n", name, sigs[name])
		} else {
			fmt.Fprintf(out, "%s %x\n", name, sigs[name])
		}
	}
	return 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "derive":
		return cmdKeyDerive(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "export":
		return cmdKeyExport(args[1:], out, errOut)
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "xdao-sig448 key: minimal local Ed448 key management")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xdao-sig448 key init --name <name> [--seed-hex <114hex>] [--force]")
	fmt.Fprintln(w, "  xdao-sig448 key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  xdao-sig448 key list")
	fmt.Fprintln(w, "  xdao-sig448 key export --name <name> [--role <role>]")
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var common commonFlags
	var name string
	var seedHex string
	var force bool
	common.register(fs)
	fs.StringVar(&name, "name", "", "Key name (directory under the key store)")
	fs.StringVar(&seedHex, "seed-hex", "", "Optional ed448 seed as 114 hex chars (for reproducible demos)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	log := common.logger(errOut)
	defer func() { _ = log.Sync() }()

	ks, err := keys.CreateKeyStore(common.keysDir)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}

	var seed []byte
	if seedHex != "" {
		seed, err = keys.ParseSeedHex(seedHex)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", err)
			return 2
		}
	} else {
		seed, err = keys.GenerateSeed(rand.Reader)
		if err != nil {
			fmt.Fprintf(errOut, "rand: %v\n", err)
			return 1
		}
	}

	issuerKey, rootPath, err := ks.InitializeRootKey(name, seed, force)
	if err != nil {
		fmt.Fprintf(errOut, "write key: %v\n", err)
		return 1
	}
	log.Debug("created root key", zap.String("name", name), zap.String("path", rootPath))
	fmt.Fprintf(out, "Created root key: %s\n", issuerKey)
	fmt.Fprintf(out, "Stored at: %s\n", rootPath)
	return 0
}

func cmdKeyDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var common commonFlags
	var from string
	var role string
	var force bool
	common.register(fs)
	fs.StringVar(&from, "from", "", "Root key name")
	fs.StringVar(&role, "role", "", "Role identifier (e.g. author, reviewer)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if from == "" {
		fmt.Fprintln(errOut, "missing --from")
		return 2
	}
	if role == "" {
		fmt.Fprintln(errOut, "missing --role")
		return 2
	}
	if err := keys.CheckKeyName(from); err != nil {
		fmt.Fprintf(errOut, "invalid --from: %v\n", err)
		return 2
	}
	if err := keys.CheckRole(role); err != nil {
		fmt.Fprintf(errOut, "invalid --role: %v\n", err)
		return 2
	}
	log := common.logger(errOut)
	defer func() { _ = log.Sync() }()

	ks, err := keys.CreateKeyStore(common.keysDir)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	issuerKey, rolePath, err := ks.DeriveKeyFromRole(from, role, force)
	if err != nil {
		fmt.Fprintf(errOut, "derive role key: %v\n", err)
		return 1
	}
	log.Debug("derived role key", zap.String("from", from), zap.String("role", role))
	fmt.Fprintf(out, "Created role key: %s\n", issuerKey)
	fmt.Fprintf(out, "Stored at: %s\n", rolePath)
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key export", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var common commonFlags
	var name string
	var role string
	common.register(fs)
	fs.StringVar(&name, "name", "", "Key name")
	fs.StringVar(&role, "role", "", "Optional role (if set, exports derived role key)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	if role != "" {
		if err := keys.CheckRole(role); err != nil {
			fmt.Fprintf(errOut, "invalid --role: %v\n", err)
			return 2
		}
	}
	ks, err := keys.CreateKeyStore(common.keysDir)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	issuerKey, err := ks.ExportKey(name, role)
	if err != nil {
		fmt.Fprintf(errOut, "export key: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, issuerKey)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ks, err := keys.CreateKeyStore(common.keysDir)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	entries, err := ks.ListKeys()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s\n", e.Identifier)
		for _, r := range e.Roles {
			fmt.Fprintf(out, "  - %s\n", r)
		}
	}
	return 0
}
