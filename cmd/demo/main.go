// Command demo drives the BBS+ issuer/prover/verifier role flow from the
// command line: key generation, full and blind signing, unblinding, and
// selective-disclosure proof creation/verification, each step persisting
// its artifacts as small JSON files so a session can be composed out of
// several invocations the way a real issuance protocol is composed out of
// several network round trips.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"

	"github.com/bbsplus-go/bbsplus/bbs"
)

// Command represents a subcommand.
type Command struct {
	Name        string
	Description string
	Execute     func(args []string) error
}

// KeyPairFile is the on-disk form of a full random-mode key pair.
type KeyPairFile struct {
	MessageCount int    `json:"messageCount"`
	SecretKey    string `json:"secretKey,omitempty"`
	PublicKey    string `json:"publicKey"`
}

// ShortKeyFile is the on-disk form of a deterministic-mode key pair.
type ShortKeyFile struct {
	SecretKey               string `json:"secretKey,omitempty"`
	DeterministicPublicKey string `json:"deterministicPublicKey"`
}

// LinkSecretFile holds a blinding factor a Prover reuses across proofs to
// link them without revealing the underlying message, keyed to the schema
// index it blinds.
type LinkSecretFile struct {
	Index    int    `json:"index"`
	Blinding string `json:"blinding"`
}

// CredentialFile is a full signature over every attribute named in a
// schema.
type CredentialFile struct {
	PublicKey  string            `json:"publicKey"`
	Signature  string            `json:"signature"`
	Messages   map[string]string `json:"messages"`
	Issuer     string            `json:"issuer,omitempty"`
}

// BlindContextFile is the holder's commitment plus the retained s' it
// needs to unblind the eventual BlindSignature.
type BlindContextFile struct {
	Context           string            `json:"context"`
	SPrime            string            `json:"sPrime"`
	CommittedMessages map[string]string `json:"committedMessages"`
	Nonce             string            `json:"nonce"`
}

// BlindSignatureFile is the signer's half-signature handed back to the
// holder for unblinding.
type BlindSignatureFile struct {
	BlindSignature string `json:"blindSignature"`
}

// ProofFile is a non-interactive signature proof of knowledge plus the
// messages it discloses in the clear.
type ProofFile struct {
	PublicKey string            `json:"publicKey"`
	Proof     string            `json:"proof"`
	Revealed  map[string]string `json:"revealed"`
	Issuer    string            `json:"issuer,omitempty"`
}

func main() {
	commands := []Command{
		{Name: "keygen", Description: "Generate a random-mode key pair", Execute: cmdKeyGen},
		{Name: "short-keygen", Description: "Generate a deterministic-mode key pair", Execute: cmdShortKeyGen},
		{Name: "expand", Description: "Expand a short key pair into a full one", Execute: cmdExpand},
		{Name: "link-secret", Description: "Sample a fresh link secret for cross-proof linkage", Execute: cmdLinkSecret},
		{Name: "issue", Description: "Sign a full attribute set", Execute: cmdIssue},
		{Name: "verify", Description: "Verify a credential", Execute: cmdVerify},
		{Name: "blind-commit", Description: "Holder: commit to a subset of attributes", Execute: cmdBlindCommit},
		{Name: "blind-sign", Description: "Issuer: complete a blind signature", Execute: cmdBlindSign},
		{Name: "unblind", Description: "Holder: unblind and verify the completed signature", Execute: cmdUnblind},
		{Name: "prove", Description: "Create a selective-disclosure proof", Execute: cmdProve},
		{Name: "verify-proof", Description: "Verify a selective-disclosure proof", Execute: cmdVerifyProof},
	}

	if len(os.Args) < 2 {
		showHelp(commands)
		os.Exit(1)
	}

	cmdName := os.Args[1]
	for _, cmd := range commands {
		if cmd.Name == cmdName {
			if err := cmd.Execute(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		}
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmdName)
	showHelp(commands)
	os.Exit(1)
}

func showHelp(commands []Command) {
	fmt.Println("BBS+ demo - exercises the issuer/prover/verifier role flow")
	fmt.Println("\nUsage:")
	fmt.Println("  demo <command> [options]")
	fmt.Println("\nAvailable Commands:")
	for _, cmd := range commands {
		fmt.Printf("  %-14s %s\n", cmd.Name, cmd.Description)
	}
	fmt.Println("\nRun 'demo <command> -h' for more information about a command")
}

// schema is the ordered attribute-name list both sides of a protocol run
// agree on out of band; an attribute's position in it is its message
// index, matching SPEC_FULL's fixed-L public key layout.
func loadSchema(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	var schema []string
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}
	return schema, nil
}

func indexOf(schema []string, name string) (int, error) {
	for i, n := range schema {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("attribute %q is not in the schema", name)
}

func loadAttributes(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attributes file: %w", err)
	}
	var attrs map[string]string
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("failed to parse attributes JSON: %w", err)
	}
	return attrs, nil
}

func messageFor(value string) (*big.Int, error) {
	return bbs.MessageFromHash([]byte(value), bbs.DefaultDST)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func decodeB64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return b, nil
}

func cmdKeyGen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	messageCount := fs.Int("messages", 5, "Number of messages the key supports")
	output := fs.String("output", "keypair.json", "Output file for the key pair")
	fs.Parse(args)

	kp, err := bbs.GenerateKeyPair(*messageCount, rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate key pair: %w", err)
	}
	defer kp.SecretKey.Zero()

	out := KeyPairFile{
		MessageCount: *messageCount,
		SecretKey:    base64.StdEncoding.EncodeToString(bbs.ScalarToCanonicalBytes(kp.SecretKey.X)),
		PublicKey:    base64.StdEncoding.EncodeToString(kp.PublicKey.Marshal()),
	}
	if err := writeJSON(*output, out); err != nil {
		return err
	}
	fmt.Printf("Generated a %d-message key pair, saved to %s\n", *messageCount, *output)
	return nil
}

func cmdShortKeyGen(args []string) error {
	fs := flag.NewFlagSet("short-keygen", flag.ExitOnError)
	output := fs.String("output", "shortkeys.json", "Output file for the key pair")
	fs.Parse(args)

	sk, dpk, err := bbs.ShortKeys(rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate short key pair: %w", err)
	}
	defer sk.Zero()
	out := ShortKeyFile{
		SecretKey:              base64.StdEncoding.EncodeToString(bbs.ScalarToCanonicalBytes(sk.X)),
		DeterministicPublicKey: base64.StdEncoding.EncodeToString(dpk.Marshal()),
	}
	if err := writeJSON(*output, out); err != nil {
		return err
	}
	fmt.Printf("Generated a short key pair, saved to %s\n", *output)
	return nil
}

func cmdExpand(args []string) error {
	fs := flag.NewFlagSet("expand", flag.ExitOnError)
	short := fs.String("short", "shortkeys.json", "Short key pair file")
	messageCount := fs.Int("messages", 5, "Number of messages the expanded key should support")
	output := fs.String("output", "keypair.json", "Output file for the expanded key pair")
	fs.Parse(args)

	var in ShortKeyFile
	if err := readJSON(*short, &in); err != nil {
		return err
	}
	dpkBytes, err := decodeB64(in.DeterministicPublicKey)
	if err != nil {
		return err
	}
	dpk, err := bbs.UnmarshalDeterministicPublicKey(dpkBytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal deterministic public key: %w", err)
	}
	pk, err := dpk.Expand(*messageCount, bbs.DefaultDST)
	if err != nil {
		return fmt.Errorf("failed to expand public key: %w", err)
	}

	out := KeyPairFile{
		MessageCount: *messageCount,
		SecretKey:    in.SecretKey,
		PublicKey:    base64.StdEncoding.EncodeToString(pk.Marshal()),
	}
	if err := writeJSON(*output, out); err != nil {
		return err
	}
	fmt.Printf("Expanded to a %d-message key pair, saved to %s\n", *messageCount, *output)
	return nil
}

func cmdLinkSecret(args []string) error {
	fs := flag.NewFlagSet("link-secret", flag.ExitOnError)
	index := fs.Int("index", 0, "Schema index the link secret blinds")
	output := fs.String("output", "linksecret.json", "Output file for the link secret")
	fs.Parse(args)

	secret, err := bbs.RandomScalar(rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to sample link secret: %w", err)
	}
	out := LinkSecretFile{
		Index:    *index,
		Blinding: base64.StdEncoding.EncodeToString(bbs.ScalarToCanonicalBytes(secret)),
	}
	if err := writeJSON(*output, out); err != nil {
		return err
	}
	fmt.Printf("Generated a link secret for index %d, saved to %s\n", *index, *output)
	return nil
}

func loadPublicKey(path string) (*bbs.PublicKey, error) {
	var kf KeyPairFile
	if err := readJSON(path, &kf); err != nil {
		return nil, err
	}
	pkBytes, err := decodeB64(kf.PublicKey)
	if err != nil {
		return nil, err
	}
	pk, err := bbs.UnmarshalPublicKey(pkBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal public key: %w", err)
	}
	return pk, nil
}

func loadKeyPair(path string) (*bbs.SecretKey, *bbs.PublicKey, error) {
	var kf KeyPairFile
	if err := readJSON(path, &kf); err != nil {
		return nil, nil, err
	}
	if kf.SecretKey == "" {
		return nil, nil, fmt.Errorf("%s has no secret key", path)
	}
	skBytes, err := decodeB64(kf.SecretKey)
	if err != nil {
		return nil, nil, err
	}
	x, err := bbs.ScalarFromCanonicalBytes(skBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal secret key: %w", err)
	}
	pk, err := loadPublicKey(path)
	if err != nil {
		return nil, nil, err
	}
	return &bbs.SecretKey{X: x}, pk, nil
}

func cmdIssue(args []string) error {
	fs := flag.NewFlagSet("issue", flag.ExitOnError)
	keyFile := fs.String("key", "keypair.json", "Key pair file")
	schemaFile := fs.String("schema", "schema.json", "Attribute-name schema file")
	attributesFile := fs.String("attributes", "", "JSON file mapping attribute name to value")
	issuer := fs.String("issuer", "", "Issuer identifier")
	output := fs.String("output", "credential.json", "Output file for the credential")
	fs.Parse(args)

	sk, pk, err := loadKeyPair(*keyFile)
	if err != nil {
		return err
	}
	defer sk.Zero()
	schema, err := loadSchema(*schemaFile)
	if err != nil {
		return err
	}
	attrs, err := loadAttributes(*attributesFile)
	if err != nil {
		return err
	}
	if len(attrs) != len(schema) {
		return fmt.Errorf("schema has %d attributes but %d were supplied", len(schema), len(attrs))
	}

	messages := make([]*big.Int, len(schema))
	for i, name := range schema {
		value, ok := attrs[name]
		if !ok {
			return fmt.Errorf("attribute %q missing from %s", name, *attributesFile)
		}
		m, err := messageFor(value)
		if err != nil {
			return err
		}
		messages[i] = m
	}

	sig, err := bbs.Sign(sk, pk, messages, rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}

	out := CredentialFile{
		PublicKey: base64.StdEncoding.EncodeToString(pk.Marshal()),
		Signature: base64.StdEncoding.EncodeToString(sig.Marshal()),
		Messages:  attrs,
		Issuer:    *issuer,
	}
	if err := writeJSON(*output, out); err != nil {
		return err
	}
	fmt.Printf("Issued a credential over %d attributes, saved to %s\n", len(schema), *output)
	return nil
}

func credentialMessages(schema []string, messages map[string]string) ([]*big.Int, error) {
	out := make([]*big.Int, len(schema))
	for i, name := range schema {
		value, ok := messages[name]
		if !ok {
			return nil, fmt.Errorf("attribute %q missing from credential", name)
		}
		m, err := messageFor(value)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

func cmdVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	schemaFile := fs.String("schema", "schema.json", "Attribute-name schema file")
	credentialFile := fs.String("credential", "credential.json", "Credential file to verify")
	fs.Parse(args)

	schema, err := loadSchema(*schemaFile)
	if err != nil {
		return err
	}
	var cred CredentialFile
	if err := readJSON(*credentialFile, &cred); err != nil {
		return err
	}

	pkBytes, err := decodeB64(cred.PublicKey)
	if err != nil {
		return err
	}
	pk, err := bbs.UnmarshalPublicKey(pkBytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal public key: %w", err)
	}
	sigBytes, err := decodeB64(cred.Signature)
	if err != nil {
		return err
	}
	sig, err := bbs.UnmarshalSignature(sigBytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal signature: %w", err)
	}
	messages, err := credentialMessages(schema, cred.Messages)
	if err != nil {
		return err
	}

	if err := bbs.Verify(pk, sig, messages); err != nil {
		return fmt.Errorf("credential verification failed: %w", err)
	}
	fmt.Println("Credential verified successfully!")
	return nil
}

func nonceBytesFor(seed string) []byte {
	if seed == "" {
		return nil
	}
	m, err := messageFor(seed)
	if err != nil {
		return []byte(seed)
	}
	return bbs.ScalarToCanonicalBytes(m)
}

func cmdBlindCommit(args []string) error {
	fs := flag.NewFlagSet("blind-commit", flag.ExitOnError)
	keyFile := fs.String("key", "keypair.json", "Public key file (secret key not required)")
	schemaFile := fs.String("schema", "schema.json", "Attribute-name schema file")
	committedFile := fs.String("committed", "", "JSON file mapping committed attribute name to value")
	nonce := fs.String("nonce", "", "Signing-session nonce supplied by the issuer")
	output := fs.String("output", "context.json", "Output file for the blind signature context")
	fs.Parse(args)

	pk, err := loadPublicKey(*keyFile)
	if err != nil {
		return err
	}
	schema, err := loadSchema(*schemaFile)
	if err != nil {
		return err
	}
	committed, err := loadAttributes(*committedFile)
	if err != nil {
		return err
	}

	committedMessages := make(map[int]*big.Int, len(committed))
	for name, value := range committed {
		idx, err := indexOf(schema, name)
		if err != nil {
			return err
		}
		m, err := messageFor(value)
		if err != nil {
			return err
		}
		committedMessages[idx] = m
	}

	nonceBytes := nonceBytesFor(*nonce)
	ctx, sPrime, err := bbs.NewBlindSignatureContext(pk, committedMessages, nonceBytes, rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to build blind signature context: %w", err)
	}

	out := BlindContextFile{
		Context:           base64.StdEncoding.EncodeToString(ctx.Marshal()),
		SPrime:            base64.StdEncoding.EncodeToString(bbs.ScalarToCanonicalBytes(sPrime)),
		CommittedMessages: committed,
		Nonce:             *nonce,
	}
	if err := writeJSON(*output, out); err != nil {
		return err
	}
	fmt.Printf("Committed to %d attributes, saved context to %s\n", len(committed), *output)
	return nil
}

func cmdBlindSign(args []string) error {
	fs := flag.NewFlagSet("blind-sign", flag.ExitOnError)
	keyFile := fs.String("key", "keypair.json", "Issuer key pair file")
	schemaFile := fs.String("schema", "schema.json", "Attribute-name schema file")
	contextFile := fs.String("context", "context.json", "Blind signature context file from the holder")
	attributesFile := fs.String("attributes", "", "JSON file mapping the issuer's own attribute name to value")
	nonce := fs.String("nonce", "", "Signing-session nonce this context was bound to")
	output := fs.String("output", "blindsig.json", "Output file for the blind signature")
	fs.Parse(args)

	sk, pk, err := loadKeyPair(*keyFile)
	if err != nil {
		return err
	}
	defer sk.Zero()
	schema, err := loadSchema(*schemaFile)
	if err != nil {
		return err
	}
	var ctxFile BlindContextFile
	if err := readJSON(*contextFile, &ctxFile); err != nil {
		return err
	}
	ctxBytes, err := decodeB64(ctxFile.Context)
	if err != nil {
		return err
	}
	ctx, err := bbs.UnmarshalBlindSignatureContext(ctxBytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal blind signature context: %w", err)
	}
	attrs, err := loadAttributes(*attributesFile)
	if err != nil {
		return err
	}

	messages := make(map[int]*big.Int, len(attrs))
	for name, value := range attrs {
		idx, err := indexOf(schema, name)
		if err != nil {
			return err
		}
		m, err := messageFor(value)
		if err != nil {
			return err
		}
		messages[idx] = m
	}

	nonceBytes := nonceBytesFor(*nonce)
	bs, err := bbs.BlindSign(sk, pk, ctx, messages, nonceBytes, rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to complete blind signature: %w", err)
	}

	out := BlindSignatureFile{BlindSignature: base64.StdEncoding.EncodeToString(bs.Marshal())}
	if err := writeJSON(*output, out); err != nil {
		return err
	}
	fmt.Printf("Completed a blind signature over %d issuer attributes, saved to %s\n", len(attrs), *output)
	return nil
}

func cmdUnblind(args []string) error {
	fs := flag.NewFlagSet("unblind", flag.ExitOnError)
	keyFile := fs.String("key", "keypair.json", "Public key file")
	schemaFile := fs.String("schema", "schema.json", "Attribute-name schema file")
	contextFile := fs.String("context", "context.json", "Blind signature context file (carries s')")
	blindSigFile := fs.String("blindsig", "blindsig.json", "Blind signature file from the issuer")
	attributesFile := fs.String("attributes", "", "JSON file mapping the issuer's attribute name to value, as communicated out of band")
	issuer := fs.String("issuer", "", "Issuer identifier")
	output := fs.String("output", "credential.json", "Output file for the unblinded credential")
	fs.Parse(args)

	pk, err := loadPublicKey(*keyFile)
	if err != nil {
		return err
	}
	schema, err := loadSchema(*schemaFile)
	if err != nil {
		return err
	}
	var ctxFile BlindContextFile
	if err := readJSON(*contextFile, &ctxFile); err != nil {
		return err
	}
	sPrimeBytes, err := decodeB64(ctxFile.SPrime)
	if err != nil {
		return err
	}
	sPrime, err := bbs.ScalarFromCanonicalBytes(sPrimeBytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal s': %w", err)
	}

	var bsFile BlindSignatureFile
	if err := readJSON(*blindSigFile, &bsFile); err != nil {
		return err
	}
	bsBytes, err := decodeB64(bsFile.BlindSignature)
	if err != nil {
		return err
	}
	bs, err := bbs.UnmarshalBlindSignature(bsBytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal blind signature: %w", err)
	}

	issuerAttrs, err := loadAttributes(*attributesFile)
	if err != nil {
		return err
	}
	allMessages := make(map[string]string, len(schema))
	for name, value := range ctxFile.CommittedMessages {
		allMessages[name] = value
	}
	for name, value := range issuerAttrs {
		allMessages[name] = value
	}

	messages, err := credentialMessages(schema, allMessages)
	if err != nil {
		return err
	}

	sig := bs.Unblind(sPrime)
	if err := bbs.Verify(pk, sig, messages); err != nil {
		return fmt.Errorf("unblinded signature failed verification: %w", err)
	}

	out := CredentialFile{
		PublicKey: base64.StdEncoding.EncodeToString(pk.Marshal()),
		Signature: base64.StdEncoding.EncodeToString(sig.Marshal()),
		Messages:  allMessages,
		Issuer:    *issuer,
	}
	if err := writeJSON(*output, out); err != nil {
		return err
	}
	fmt.Printf("Unblinded and verified a %d-attribute credential, saved to %s\n", len(schema), *output)
	return nil
}

func cmdProve(args []string) error {
	fs := flag.NewFlagSet("prove", flag.ExitOnError)
	keyFile := fs.String("key", "keypair.json", "Public key file")
	schemaFile := fs.String("schema", "schema.json", "Attribute-name schema file")
	credentialFile := fs.String("credential", "credential.json", "Credential file")
	reveal := fs.String("reveal", "", "Comma-separated list of attribute names to reveal")
	linkSecretFile := fs.String("link-secret", "", "Optional link secret file to share a blinding with other proofs")
	nonce := fs.String("nonce", "", "Verifier-supplied proof nonce")
	output := fs.String("output", "proof.json", "Output file for the proof")
	fs.Parse(args)

	pk, err := loadPublicKey(*keyFile)
	if err != nil {
		return err
	}
	schema, err := loadSchema(*schemaFile)
	if err != nil {
		return err
	}
	var cred CredentialFile
	if err := readJSON(*credentialFile, &cred); err != nil {
		return err
	}
	sigBytes, err := decodeB64(cred.Signature)
	if err != nil {
		return err
	}
	sig, err := bbs.UnmarshalSignature(sigBytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal signature: %w", err)
	}
	messages, err := credentialMessages(schema, cred.Messages)
	if err != nil {
		return err
	}

	var revealNames []string
	if *reveal != "" {
		for _, n := range strings.Split(*reveal, ",") {
			revealNames = append(revealNames, strings.TrimSpace(n))
		}
	}
	revealIdx := make([]int, 0, len(revealNames))
	for _, name := range revealNames {
		idx, err := indexOf(schema, name)
		if err != nil {
			return err
		}
		revealIdx = append(revealIdx, idx)
	}

	disclosures := bbs.RevealAll(len(schema), revealIdx)

	if *linkSecretFile != "" {
		var ls LinkSecretFile
		if err := readJSON(*linkSecretFile, &ls); err != nil {
			return err
		}
		blindingBytes, err := decodeB64(ls.Blinding)
		if err != nil {
			return err
		}
		blinding, err := bbs.ScalarFromCanonicalBytes(blindingBytes)
		if err != nil {
			return fmt.Errorf("failed to unmarshal link secret blinding: %w", err)
		}
		if ls.Index < 0 || ls.Index >= len(schema) {
			return fmt.Errorf("link secret index %d out of range", ls.Index)
		}
		if disclosures[ls.Index].Kind == bbs.Revealed {
			return fmt.Errorf("link secret index %d is also listed as revealed", ls.Index)
		}
		disclosures[ls.Index] = bbs.Disclosure{Kind: bbs.HiddenExternalBlinding, SharedBlinding: blinding}
	}

	nonceBytes := nonceBytesFor(*nonce)
	proof, err := bbs.CreateProof(pk, sig, messages, disclosures, nonceBytes, rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to create proof: %w", err)
	}

	revealed := make(map[string]string, len(revealNames))
	for _, name := range revealNames {
		revealed[name] = cred.Messages[name]
	}

	out := ProofFile{
		PublicKey: base64.StdEncoding.EncodeToString(pk.Marshal()),
		Proof:     base64.StdEncoding.EncodeToString(proof.Marshal()),
		Revealed:  revealed,
		Issuer:    cred.Issuer,
	}
	if err := writeJSON(*output, out); err != nil {
		return err
	}
	fmt.Printf("Created a proof revealing %d of %d attributes, saved to %s\n", len(revealNames), len(schema), *output)
	return nil
}

func cmdVerifyProof(args []string) error {
	fs := flag.NewFlagSet("verify-proof", flag.ExitOnError)
	proofFile := fs.String("proof", "proof.json", "Proof file to verify")
	schemaFile := fs.String("schema", "schema.json", "Attribute-name schema file")
	nonce := fs.String("nonce", "", "Nonce the proof must have been built with")
	fs.Parse(args)

	var p ProofFile
	if err := readJSON(*proofFile, &p); err != nil {
		return err
	}
	schema, err := loadSchema(*schemaFile)
	if err != nil {
		return err
	}
	pkBytes, err := decodeB64(p.PublicKey)
	if err != nil {
		return err
	}
	pk, err := bbs.UnmarshalPublicKey(pkBytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal public key: %w", err)
	}
	proofBytes, err := decodeB64(p.Proof)
	if err != nil {
		return err
	}
	proof, err := bbs.UnmarshalSignatureProof(proofBytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal proof: %w", err)
	}

	nonceBytes := nonceBytesFor(*nonce)
	if err := bbs.VerifyProof(pk, proof, nonceBytes); err != nil {
		return fmt.Errorf("proof verification failed: %w", err)
	}

	fmt.Println("Proof verified successfully!")
	fmt.Println("Revealed attributes:")
	revealedIdx := make([]int, 0, len(proof.Revealed))
	for idx := range proof.Revealed {
		revealedIdx = append(revealedIdx, idx)
	}
	sort.Ints(revealedIdx)
	for _, idx := range revealedIdx {
		name := fmt.Sprintf("index %d", idx)
		if idx < len(schema) {
			name = schema[idx]
		}
		fmt.Printf("  %s: %s\n", name, p.Revealed[name])
	}
	return nil
}
