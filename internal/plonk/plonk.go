// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package plonk implements the standard-KZG PLONK verifier (spec §4.7):
// transcript-driven challenge derivation, gate/permutation linearization,
// and a single batched KZG opening check at two points. It is polymorphic
// over field.Backend, matching every other verifier in this repository
// (spec §8 property 3).
package plonk

import (
	"github.com/luxfi/uzkv/internal/field"
	"github.com/luxfi/uzkv/internal/transcript"
	"github.com/luxfi/uzkv/internal/verr"
)

// k1, k2 are the standard PLONK coset shifts separating the three wire
// permutation cosets (identity, k1·H, k2·H) from the evaluation domain H.
var (
	k1 = mustFrInt(2)
	k2 = mustFrInt(3)
)

func mustFrInt(v int64) field.Fr {
	f, err := field.NewFr(bigInt(v))
	if err != nil {
		panic(err)
	}
	return f
}

// Proof is the standard PLONK proof (spec §4.7): nine G1 commitments and
// six scalar evaluations, in the canonical tie-break order a,b,c,sσ1,sσ2,zω.
type Proof struct {
	ACommit, BCommit, CCommit field.G1
	ZCommit                   field.G1
	TLo, TMid, THi            field.G1
	WZeta, WZetaOmega         field.G1

	ABar, BBar, CBar       field.Fr
	SSigma1Bar, SSigma2Bar field.Fr
	ZOmegaBar              field.Fr
}

// ProofByteLength is the fixed wire size: 9 G1 commitments (64 bytes each)
// followed by 6 Fr evaluations (32 bytes each).
const ProofByteLength = 9*64 + 6*32

// ParseProof decodes the fixed-layout PLONK proof payload.
func ParseProof(backend field.Backend, payload []byte) (*Proof, error) {
	if len(payload) != ProofByteLength {
		return nil, verr.New(verr.KindMalformedDescriptor, "proof_payload", nil)
	}

	points := make([]field.G1, 9)
	for i := 0; i < 9; i++ {
		p, err := backend.DecodeG1(payload[i*64 : (i+1)*64])
		if err != nil {
			return nil, err
		}
		points[i] = p
	}

	off := 9 * 64
	scalars := make([]field.Fr, 6)
	for i := 0; i < 6; i++ {
		s, err := field.FrFromBytes(payload[off+i*32 : off+(i+1)*32])
		if err != nil {
			return nil, verr.New(verr.KindMalformedDescriptor, "evaluation", err)
		}
		scalars[i] = s
	}

	return &Proof{
		ACommit: points[0], BCommit: points[1], CCommit: points[2],
		ZCommit: points[3],
		TLo:     points[4], TMid: points[5], THi: points[6],
		WZeta:   points[7], WZetaOmega: points[8],
		ABar: scalars[0], BBar: scalars[1], CBar: scalars[2],
		SSigma1Bar: scalars[3], SSigma2Bar: scalars[4], ZOmegaBar: scalars[5],
	}, nil
}

// VerifyingKey is the PLONK circuit VK (spec §4.7): domain size and
// generator, the five gate-selector commitments, and the first two
// permutation commitments plus the third (needed by the linearization's
// permutation-grand-product term).
type VerifyingKey struct {
	DomainSize uint64
	Omega      field.Fr

	QM, QL, QR, QO, QC field.G1
	SSigma1, SSigma2, SSigma3 field.G1

	// X2 is the SRS's [x]₂ point; [1]₂ is the fixed BN254 G2 generator.
	X2 field.G2
}

// VKByteLength is the fixed wire size: domain_size(8) + omega(32) + 5
// selector G1 commitments + 3 permutation G1 commitments + X2(128).
const VKByteLength = 8 + 32 + 8*64 + 128

// ParseVerifyingKey decodes a VK blob laid out as
// domain_size || omega || qM||qL||qR||qO||qC || sσ1||sσ2||sσ3 || x2.
func ParseVerifyingKey(backend field.Backend, blob []byte) (*VerifyingKey, error) {
	if len(blob) != VKByteLength {
		return nil, verr.New(verr.KindVkShapeMismatch, "vk_blob", nil)
	}

	domainSize := beUint64(blob[0:8])
	omega, err := field.FrFromBytes(blob[8:40])
	if err != nil {
		return nil, verr.New(verr.KindVkShapeMismatch, "omega", err)
	}

	off := 40
	g1s := make([]field.G1, 8)
	for i := 0; i < 8; i++ {
		p, err := backend.DecodeG1(blob[off+i*64 : off+(i+1)*64])
		if err != nil {
			return nil, err
		}
		g1s[i] = p
	}
	off += 8 * 64

	x2, err := backend.DecodeG2(blob[off : off+128])
	if err != nil {
		return nil, err
	}

	return &VerifyingKey{
		DomainSize: domainSize,
		Omega:      omega,
		QM: g1s[0], QL: g1s[1], QR: g1s[2], QO: g1s[3], QC: g1s[4],
		SSigma1: g1s[5], SSigma2: g1s[6], SSigma3: g1s[7],
		X2: x2,
	}, nil
}

// Verify checks a PLONK proof against vk and publicInputs, following the
// transcript order, linearization, and batched KZG opening of spec §4.7.
func Verify(backend field.Backend, vk *VerifyingKey, proof *Proof, publicInputs []field.Fr) (bool, error) {
	ch, err := transcript.New(transcript.HashKeccak256, "UZKV-PLONK-v2")
	if err != nil {
		return false, err
	}

	for _, pi := range publicInputs {
		b := pi.Bytes32()
		ch.Absorb("public_input", b[:])
	}
	ch.Absorb("a", proof.ACommit.Bytes[:])
	ch.Absorb("b", proof.BCommit.Bytes[:])
	ch.Absorb("c", proof.CCommit.Bytes[:])
	beta := ch.Challenge("beta")
	gamma := ch.Challenge("gamma")

	ch.Absorb("z", proof.ZCommit.Bytes[:])
	alpha := ch.Challenge("alpha")

	ch.Absorb("t_lo", proof.TLo.Bytes[:])
	ch.Absorb("t_mid", proof.TMid.Bytes[:])
	ch.Absorb("t_hi", proof.THi.Bytes[:])
	zeta := ch.Challenge("zeta")

	if zeta.Equal(field.FrOne()) {
		return false, verr.New(verr.KindDomainSingularity, "zeta", nil)
	}

	evalBytes := [][32]byte{
		proof.ABar.Bytes32(), proof.BBar.Bytes32(), proof.CBar.Bytes32(),
		proof.SSigma1Bar.Bytes32(), proof.SSigma2Bar.Bytes32(), proof.ZOmegaBar.Bytes32(),
	}
	for _, b := range evalBytes {
		ch.Absorb("evaluation", b[:])
	}
	v := ch.Challenge("v")

	ch.Absorb("w_zeta", proof.WZeta.Bytes[:])
	ch.Absorb("w_zeta_omega", proof.WZetaOmega.Bytes[:])
	u := ch.Challenge("u")

	n := vk.DomainSize
	zetaN := zeta.Pow(n)
	zH := zetaN.Sub(field.FrOne())

	zetaMinusOne := zeta.Sub(field.FrOne())
	zetaMinusOneInv, err := zetaMinusOne.Inverse()
	if err != nil {
		return false, verr.New(verr.KindDomainSingularity, "zeta", nil)
	}
	nFr, err := field.NewFr(bigInt(int64(n)))
	if err != nil {
		return false, err
	}
	nInv, err := nFr.Inverse()
	if err != nil {
		return false, err
	}
	l1 := zH.Mul(nInv).Mul(zetaMinusOneInv)

	pi, err := lagrangeEvalPublicInputs(vk, zeta, zH, publicInputs)
	if err != nil {
		return false, err
	}

	// r0 = PI(ζ) − L1(ζ)·α² − α·(ā+β·sσ1+γ)(b̄+β·sσ2+γ)(c̄+γ)·z̄ω
	alphaSq := alpha.Mul(alpha)
	permEval := proof.ABar.Add(beta.Mul(proof.SSigma1Bar)).Add(gamma).
		Mul(proof.BBar.Add(beta.Mul(proof.SSigma2Bar)).Add(gamma)).
		Mul(proof.CBar.Add(gamma)).
		Mul(proof.ZOmegaBar).
		Mul(alpha)
	r0 := pi.Sub(l1.Mul(alphaSq)).Sub(permEval)

	d, err := linearizationCommitment(backend, vk, proof, alpha, alphaSq, beta, gamma, zeta, zetaN, zH, l1, n)
	if err != nil {
		return false, err
	}

	// [F] = [D] + v·[a] + v²·[b] + v³·[c] + v⁴·[sσ1] + v⁵·[sσ2]
	f, err := foldG1(backend, d, v, []field.G1{proof.ACommit, proof.BCommit, proof.CCommit, vk.SSigma1, vk.SSigma2})
	if err != nil {
		return false, err
	}

	// E = r0 + v·ā + v²·b̄ + v³·c̄ + v⁴·s̄σ1 + v⁵·s̄σ2 + u·z̄ω
	e := foldFr(r0, v, []field.Fr{proof.ABar, proof.BBar, proof.CBar, proof.SSigma1Bar, proof.SSigma2Bar})
	e = e.Add(u.Mul(proof.ZOmegaBar))

	return finalPairingCheck(backend, vk, proof, zeta, u, f, e)
}

func lagrangeEvalPublicInputs(vk *VerifyingKey, zeta, zH field.Fr, publicInputs []field.Fr) (field.Fr, error) {
	acc := field.FrZero()
	omegaPow := field.FrOne()
	nFr, err := field.NewFr(bigInt(int64(vk.DomainSize)))
	if err != nil {
		return field.Fr{}, err
	}
	invN, err := nFr.Inverse()
	if err != nil {
		return field.Fr{}, err
	}
	for _, pi := range publicInputs {
		denom := zeta.Sub(omegaPow)
		if denom.IsZero() {
			return field.Fr{}, verr.New(verr.KindDomainSingularity, "zeta", nil)
		}
		denomInv, err := denom.Inverse()
		if err != nil {
			return field.Fr{}, err
		}
		li := omegaPow.Mul(invN).Mul(zH).Mul(denomInv)
		acc = acc.Add(pi.Mul(li))
		omegaPow = omegaPow.Mul(vk.Omega)
	}
	return acc, nil
}

func linearizationCommitment(backend field.Backend, vk *VerifyingKey, proof *Proof, alpha, alphaSq, beta, gamma, zeta, zetaN, zH, l1 field.Fr, n uint64) (field.G1, error) {
	gate, err := combineG1(backend,
		[]field.G1{vk.QM, vk.QL, vk.QR, vk.QO, vk.QC},
		[]field.Fr{proof.ABar.Mul(proof.BBar), proof.ABar, proof.BBar, proof.CBar, field.FrOne()},
	)
	if err != nil {
		return field.G1{}, err
	}

	permTerm1 := proof.ABar.Add(beta.Mul(zeta)).Add(gamma).
		Mul(proof.BBar.Add(beta.Mul(k1).Mul(zeta)).Add(gamma)).
		Mul(proof.CBar.Add(beta.Mul(k2).Mul(zeta)).Add(gamma)).
		Mul(alpha)
	permPart1, err := backend.ScalarMulG1(proof.ZCommit, permTerm1)
	if err != nil {
		return field.G1{}, err
	}

	permTerm2 := proof.ABar.Add(beta.Mul(proof.SSigma1Bar)).Add(gamma).
		Mul(proof.BBar.Add(beta.Mul(proof.SSigma2Bar)).Add(gamma)).
		Mul(beta).Mul(proof.ZOmegaBar).Mul(alpha)
	permPart2Raw, err := backend.ScalarMulG1(vk.SSigma3, permTerm2)
	if err != nil {
		return field.G1{}, err
	}
	permPart2, err := backend.NegG1(permPart2Raw)
	if err != nil {
		return field.G1{}, err
	}

	permPart3, err := backend.ScalarMulG1(proof.ZCommit, alphaSq.Mul(l1))
	if err != nil {
		return field.G1{}, err
	}

	zetaNSquared := zetaN.Mul(zetaN)
	tCombined, err := combineG1(backend,
		[]field.G1{proof.TLo, proof.TMid, proof.THi},
		[]field.Fr{field.FrOne(), zetaN, zetaNSquared},
	)
	if err != nil {
		return field.G1{}, err
	}
	quotientRaw, err := backend.ScalarMulG1(tCombined, zH)
	if err != nil {
		return field.G1{}, err
	}
	quotient, err := backend.NegG1(quotientRaw)
	if err != nil {
		return field.G1{}, err
	}

	return sumG1(backend, []field.G1{gate, permPart1, permPart2, permPart3, quotient})
}

func finalPairingCheck(backend field.Backend, vk *VerifyingKey, proof *Proof, zeta, u field.Fr, f field.G1, e field.Fr) (bool, error) {
	lhs, err := combineG1(backend, []field.G1{proof.WZeta, proof.WZetaOmega}, []field.Fr{field.FrOne(), u})
	if err != nil {
		return false, err
	}

	zetaOmega := zeta.Mul(vk.Omega)
	rhsPositive, err := combineG1(backend,
		[]field.G1{proof.WZeta, proof.WZetaOmega, f},
		[]field.Fr{zeta, u.Mul(zetaOmega), field.FrOne()},
	)
	if err != nil {
		return false, err
	}
	eTerm, err := backend.ScalarMulG1(field.G1Generator(), e)
	if err != nil {
		return false, err
	}
	negETerm, err := backend.NegG1(eTerm)
	if err != nil {
		return false, err
	}
	rhsSum, err := backend.AddG1(rhsPositive, negETerm)
	if err != nil {
		return false, err
	}
	rhs, err := backend.NegG1(rhsSum)
	if err != nil {
		return false, err
	}

	ok, err := backend.PairingCheck([]field.G1{lhs, rhs}, []field.G2{vk.X2, field.G2Generator()})
	if err != nil {
		return false, nil
	}
	return ok, nil
}

// combineG1 computes Σᵢ scalars[i]·points[i].
func combineG1(backend field.Backend, points []field.G1, scalars []field.Fr) (field.G1, error) {
	acc := points[0]
	var err error
	if !scalars[0].Equal(field.FrOne()) {
		acc, err = backend.ScalarMulG1(points[0], scalars[0])
		if err != nil {
			return field.G1{}, err
		}
	}
	for i := 1; i < len(points); i++ {
		term := points[i]
		if !scalars[i].Equal(field.FrOne()) {
			term, err = backend.ScalarMulG1(points[i], scalars[i])
			if err != nil {
				return field.G1{}, err
			}
		}
		acc, err = backend.AddG1(acc, term)
		if err != nil {
			return field.G1{}, err
		}
	}
	return acc, nil
}

func sumG1(backend field.Backend, points []field.G1) (field.G1, error) {
	acc := points[0]
	var err error
	for i := 1; i < len(points); i++ {
		acc, err = backend.AddG1(acc, points[i])
		if err != nil {
			return field.G1{}, err
		}
	}
	return acc, nil
}

// foldG1 returns base + Σᵢ v^(i+1)·points[i].
func foldG1(backend field.Backend, base field.G1, v field.Fr, points []field.G1) (field.G1, error) {
	acc := base
	power := v
	var err error
	for _, p := range points {
		term, err2 := backend.ScalarMulG1(p, power)
		if err2 != nil {
			return field.G1{}, err2
		}
		acc, err = backend.AddG1(acc, term)
		if err != nil {
			return field.G1{}, err
		}
		power = power.Mul(v)
	}
	return acc, nil
}

// foldFr returns base + Σᵢ v^(i+1)·scalars[i].
func foldFr(base field.Fr, v field.Fr, scalars []field.Fr) field.Fr {
	acc := base
	power := v
	for _, s := range scalars {
		acc = acc.Add(power.Mul(s))
		power = power.Mul(v)
	}
	return acc
}
