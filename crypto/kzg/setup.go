package kzg

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/nilshard/nilcore/log"
)

// Basis identifies which basis the loaded SRS's G1 points are expressed in.
type Basis int

const (
	// BasisMonomial means G1 = {τ^0·G, τ^1·G, ..., τ^{n-1}·G}.
	BasisMonomial Basis = iota
	// BasisLagrange means G1 = {L_0(τ)·G, ..., L_{m-1}(τ)·G} over the
	// ScalarsPerBlob-point domain.
	BasisLagrange
)

func (b Basis) String() string {
	if b == BasisLagrange {
		return "lagrange"
	}
	return "monomial"
}

// Context is an immutable, loaded trusted setup together with the derived
// evaluation domain and canonical G1 generator. A *Context is safe to share
// read-only across goroutines.
type Context struct {
	G1     []bls12381.G1Affine
	G2     [2]bls12381.G2Affine // {H, τ·H}
	Basis  Basis
	Domain *Domain

	// generator is the canonical G1 generator for the loaded basis: G1[0]
	// for monomial, Σ G1[i] for Lagrange (since Σ L_i(τ) = 1).
	generator bls12381.G1Affine

	// identityCompressed caches the compressed all-zero-blob commitment.
	identityCompressed [CompressedG1Size]byte
}

// LoadSetup parses the textual trusted-setup artifact described in §6: line
// 1 is decimal n_g1, line 2 is decimal n_g2, followed by n_g1 hex-encoded
// compressed G1 points and n_g2 hex-encoded compressed G2 points.
func LoadSetup(r io.Reader) (*Context, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	nG1, err := readCountLine(sc)
	if err != nil {
		return nil, err
	}
	nG2, err := readCountLine(sc)
	if err != nil {
		return nil, err
	}
	if nG1 < 2 {
		return nil, ErrTooFewG1Points
	}
	if nG2 < 2 {
		return nil, ErrTooFewG2Points
	}
	if nG1 < ScalarsPerBlob {
		return nil, ErrSRSTooSmall
	}

	g1 := make([]bls12381.G1Affine, nG1)
	for i := 0; i < nG1; i++ {
		pt, err := readG1Line(sc)
		if err != nil {
			return nil, fmt.Errorf("kzg: G1[%d]: %w", i, err)
		}
		g1[i] = pt
	}

	g2 := make([]bls12381.G2Affine, nG2)
	for i := 0; i < nG2; i++ {
		pt, err := readG2Line(sc)
		if err != nil {
			return nil, fmt.Errorf("kzg: G2[%d]: %w", i, err)
		}
		g2[i] = pt
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("kzg: reading trusted setup: %w", err)
	}

	ctx, err := newContextFromPoints(g1, [2]bls12381.G2Affine{g2[0], g2[1]})
	if err != nil {
		return nil, err
	}
	log.Debugw("kzg trusted setup loaded", "n_g1", nG1, "n_g2", nG2, "basis", ctx.Basis.String())
	return ctx, nil
}

// newContextFromPoints builds a Context from already-decoded, already-
// validated SRS points: derives the domain, detects the basis, and caches
// the canonical generator and compressed identity.
func newContextFromPoints(g1 []bls12381.G1Affine, g2 [2]bls12381.G2Affine) (*Context, error) {
	domain, err := NewDomain(ScalarsPerBlob)
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		G1:     g1,
		G2:     g2,
		Domain: domain,
	}

	ctx.Basis, err = detectBasis(g1[0], g1[1], g2[0], g2[1])
	if err != nil {
		return nil, err
	}
	ctx.generator = canonicalGenerator(ctx.Basis, g1)

	var identity bls12381.G1Jac
	identity.X.SetZero()
	identity.Y.SetZero()
	identity.Z.SetZero()
	var identityAffine bls12381.G1Affine
	identityAffine.FromJacobian(&identity)
	ctx.identityCompressed = identityAffine.Bytes()

	return ctx, nil
}

func readCountLine(sc *bufio.Scanner) (int, error) {
	if !sc.Scan() {
		return 0, ErrMalformedCount
	}
	line := strings.TrimSpace(sc.Text())
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 {
		return 0, ErrMalformedCount
	}
	return n, nil
}

func readG1Line(sc *bufio.Scanner) (bls12381.G1Affine, error) {
	var pt bls12381.G1Affine
	b, err := readHexLine(sc, CompressedG1Size)
	if err != nil {
		return pt, err
	}
	if err := decodeG1(&pt, b); err != nil {
		return pt, err
	}
	return pt, nil
}

func readG2Line(sc *bufio.Scanner) (bls12381.G2Affine, error) {
	var pt bls12381.G2Affine
	b, err := readHexLine(sc, CompressedG2Size)
	if err != nil {
		return pt, err
	}
	if err := decodeG2(&pt, b); err != nil {
		return pt, err
	}
	return pt, nil
}

func readHexLine(sc *bufio.Scanner, wantBytes int) ([]byte, error) {
	if !sc.Scan() {
		return nil, ErrMalformedHex
	}
	line := strings.TrimSpace(sc.Text())
	b, err := hex.DecodeString(strings.ToLower(line))
	if err != nil {
		return nil, ErrMalformedHex
	}
	if len(b) != wantBytes {
		return nil, ErrWrongPointLength
	}
	return b, nil
}

func decodeG1(pt *bls12381.G1Affine, b []byte) error {
	if _, err := pt.SetBytes(b); err != nil {
		return fmt.Errorf("%w: %v", ErrPointNotOnCurve, err)
	}
	if !pt.IsInSubGroup() {
		return ErrPointNotInSubgrp
	}
	return nil
}

func decodeG2(pt *bls12381.G2Affine, b []byte) error {
	if _, err := pt.SetBytes(b); err != nil {
		return fmt.Errorf("%w: %v", ErrPointNotOnCurve, err)
	}
	if !pt.IsInSubGroup() {
		return ErrPointNotInSubgrp
	}
	return nil
}

// detectBasis implements §4.1's pairing-equality test: e(G1[1], G2[0]) ==
// e(G1[0], G2[1]) holds iff the G1 sequence lies on the line of τ-powers.
func detectBasis(g10, g11 bls12381.G1Affine, g20, g21 bls12381.G2Affine) (Basis, error) {
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{g11, g10},
		[]bls12381.G2Affine{g20, negateG2(g21)},
	)
	if err != nil {
		return BasisMonomial, fmt.Errorf("kzg: basis detection pairing failed: %w", err)
	}
	if ok {
		return BasisMonomial, nil
	}
	return BasisLagrange, nil
}

func negateG2(p bls12381.G2Affine) bls12381.G2Affine {
	var neg bls12381.G2Affine
	neg.Neg(&p)
	return neg
}

// canonicalGenerator returns G1[0] for monomial bases and Σ G1[i] for
// Lagrange bases, per §3.
func canonicalGenerator(basis Basis, g1 []bls12381.G1Affine) bls12381.G1Affine {
	if basis == BasisMonomial {
		return g1[0]
	}
	var sum bls12381.G1Jac
	sum.X.SetZero()
	sum.Y.SetZero()
	sum.Z.SetZero()
	for i := range g1 {
		var jp bls12381.G1Jac
		jp.FromAffine(&g1[i])
		sum.AddAssign(&jp)
	}
	var out bls12381.G1Affine
	out.FromJacobian(&sum)
	return out
}

// Generator returns the canonical G1 generator for this context's basis.
func (c *Context) Generator() bls12381.G1Affine { return c.generator }

// IdentityCompressed returns the compressed encoding of the G1 identity,
// the commitment of the all-zero blob.
func (c *Context) IdentityCompressed() [CompressedG1Size]byte { return c.identityCompressed }
