// Command bench benchmarks keygen, signing, verification, blind issuance
// and selective-disclosure proofs across a range of message counts, and
// optionally charts the results.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/bbsplus-go/bbsplus/bbs"
)

// result is one message-count's worth of averaged timings, in nanoseconds
// per operation.
type result struct {
	messageCount  int
	keygenNS      float64
	signNS        float64
	verifyNS      float64
	blindNS       float64
	proveNS       float64
	proofVerifyNS float64
}

func main() {
	minMessages := flag.Int("min-messages", 1, "Smallest message count to benchmark")
	maxMessages := flag.Int("max-messages", 20, "Largest message count to benchmark")
	step := flag.Int("step", 4, "Message-count step between data points")
	iterations := flag.Int("iterations", 20, "Iterations averaged per data point")
	chartOutput := flag.String("chart", "", "PNG file to render a chart to (empty to skip charting)")
	flag.Parse()

	if *minMessages < 1 {
		fmt.Fprintln(os.Stderr, "Error: min-messages must be at least 1")
		os.Exit(1)
	}
	if *maxMessages < *minMessages {
		fmt.Fprintln(os.Stderr, "Error: max-messages must be >= min-messages")
		os.Exit(1)
	}
	if *iterations < 1 {
		fmt.Fprintln(os.Stderr, "Error: iterations must be at least 1")
		os.Exit(1)
	}

	var results []result
	for n := *minMessages; n <= *maxMessages; n += *step {
		r, err := benchmarkMessageCount(n, *iterations)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error benchmarking L=%d: %v\n", n, err)
			os.Exit(1)
		}
		results = append(results, r)
		fmt.Printf("L=%-3d keygen=%10.0fns sign=%10.0fns verify=%10.0fns blind=%10.0fns prove=%10.0fns verify-proof=%10.0fns\n",
			r.messageCount, r.keygenNS, r.signNS, r.verifyNS, r.blindNS, r.proveNS, r.proofVerifyNS)
	}

	if *chartOutput != "" {
		if err := renderChart(results, *chartOutput); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Chart written to %s\n", *chartOutput)
	}
}

func benchmarkMessageCount(n, iterations int) (result, error) {
	r := result{messageCount: n}

	kp, err := timeIt(iterations, &r.keygenNS, func() (*bbs.KeyPair, error) {
		return bbs.GenerateKeyPair(n, rand.Reader)
	})
	if err != nil {
		return r, fmt.Errorf("keygen: %w", err)
	}
	defer kp.SecretKey.Zero()

	messages := make([]*big.Int, n)
	for i := range messages {
		messages[i], err = bbs.MessageFromHash([]byte(fmt.Sprintf("message %d", i)), bbs.DefaultDST)
		if err != nil {
			return r, err
		}
	}

	var sig *bbs.Signature
	sig, err = timeIt(iterations, &r.signNS, func() (*bbs.Signature, error) {
		return bbs.Sign(kp.SecretKey, kp.PublicKey, messages, rand.Reader)
	})
	if err != nil {
		return r, fmt.Errorf("sign: %w", err)
	}

	_, err = timeIt(iterations, &r.verifyNS, func() (struct{}, error) {
		return struct{}{}, bbs.Verify(kp.PublicKey, sig, messages)
	})
	if err != nil {
		return r, fmt.Errorf("verify: %w", err)
	}

	_, err = timeIt(iterations, &r.blindNS, func() (struct{}, error) {
		return struct{}{}, benchmarkBlindIssuance(kp, n, messages)
	})
	if err != nil {
		return r, fmt.Errorf("blind issuance: %w", err)
	}

	disclosed := []int{0}
	disclosures := bbs.RevealAll(n, disclosed)
	var proof *bbs.SignatureProof
	proof, err = timeIt(iterations, &r.proveNS, func() (*bbs.SignatureProof, error) {
		return bbs.CreateProof(kp.PublicKey, sig, messages, disclosures, []byte("bench-nonce"), rand.Reader)
	})
	if err != nil {
		return r, fmt.Errorf("prove: %w", err)
	}

	_, err = timeIt(iterations, &r.proofVerifyNS, func() (struct{}, error) {
		return struct{}{}, bbs.VerifyProof(kp.PublicKey, proof, []byte("bench-nonce"))
	})
	if err != nil {
		return r, fmt.Errorf("verify-proof: %w", err)
	}

	return r, nil
}

func benchmarkBlindIssuance(kp *bbs.KeyPair, n int, messages []*big.Int) error {
	if n == 0 {
		return nil
	}
	committed := map[int]*big.Int{0: messages[0]}
	signerMessages := make(map[int]*big.Int, n-1)
	for i := 1; i < n; i++ {
		signerMessages[i] = messages[i]
	}
	nonce := []byte("bench-issuance-nonce")

	ctx, sPrime, err := bbs.NewBlindSignatureContext(kp.PublicKey, committed, nonce, rand.Reader)
	if err != nil {
		return err
	}
	bs, err := bbs.BlindSign(kp.SecretKey, kp.PublicKey, ctx, signerMessages, nonce, rand.Reader)
	if err != nil {
		return err
	}
	sig := bs.Unblind(sPrime)
	return bbs.Verify(kp.PublicKey, sig, messages)
}

// timeIt runs fn iterations times, writes the mean nanoseconds per call to
// *avgNS, and returns the result of the final call so later stages have
// something real to work against.
func timeIt[T any](iterations int, avgNS *float64, fn func() (T, error)) (T, error) {
	var zero T
	var total time.Duration
	var last T
	for i := 0; i < iterations; i++ {
		start := time.Now()
		v, err := fn()
		total += time.Since(start)
		if err != nil {
			return zero, err
		}
		last = v
	}
	*avgNS = float64(total.Nanoseconds()) / float64(iterations)
	return last, nil
}

func renderChart(results []result, path string) error {
	xs := make([]float64, len(results))
	keygen := make([]float64, len(results))
	sign := make([]float64, len(results))
	verify := make([]float64, len(results))
	blind := make([]float64, len(results))
	prove := make([]float64, len(results))
	proofVerify := make([]float64, len(results))
	for i, r := range results {
		xs[i] = float64(r.messageCount)
		keygen[i] = r.keygenNS
		sign[i] = r.signNS
		verify[i] = r.verifyNS
		blind[i] = r.blindNS
		prove[i] = r.proveNS
		proofVerify[i] = r.proofVerifyNS
	}

	graph := chart.Chart{
		Title: "BBS+ operation cost by message count",
		XAxis: chart.XAxis{Name: "messages (L)"},
		YAxis: chart.YAxis{Name: "ns/op"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "keygen", XValues: xs, YValues: keygen},
			chart.ContinuousSeries{Name: "sign", XValues: xs, YValues: sign},
			chart.ContinuousSeries{Name: "verify", XValues: xs, YValues: verify},
			chart.ContinuousSeries{Name: "blind issuance", XValues: xs, YValues: blind},
			chart.ContinuousSeries{Name: "prove", XValues: xs, YValues: prove},
			chart.ContinuousSeries{Name: "verify proof", XValues: xs, YValues: proofVerify},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return graph.Render(chart.PNG, f)
}
