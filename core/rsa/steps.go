package rsa

import (
	"fmt"

	"github.com/kochabx/ciphertrace/core/trace"
)

// Phase tags the stage of the RSA walkthrough a step belongs to.
type Phase string

const (
	PhaseKeygen  Phase = "keygen"
	PhaseEncrypt Phase = "encrypt"
	PhaseDecrypt Phase = "decrypt"
)

// Operation tags the arithmetic a step performs.
type Operation string

const (
	OpChoosePrimes   Operation = "choosePrimes"
	OpComputeN       Operation = "computeN"
	OpComputePhi     Operation = "computePhi"
	OpChooseE        Operation = "chooseE"
	OpComputeD       Operation = "computeD"
	OpShowKeys       Operation = "showKeys"
	OpInputMessage   Operation = "inputMessage"
	OpComputePower   Operation = "computePower"
	OpShowCipher     Operation = "showCipher"
	OpInputCipher    Operation = "inputCipher"
	OpComputeDecrypt Operation = "computeDecrypt"
	OpShowPlain      Operation = "showPlain"
)

// StepCount is the fixed length of an RSA trace: six key-generation
// steps, three encryption steps and three decryption steps, the last of
// which carries the computed round-trip verification.
const StepCount = 12

// Step is one annotated state of an RSA run. Formula is the display
// string of the arithmetic performed; Values maps the named numeric
// results relevant to the step.
type Step struct {
	trace.Meta
	Phase    Phase            `json:"phase"`
	Op       Operation        `json:"operation"`
	Formula  string           `json:"formula"`
	Values   map[string]int64 `json:"values"`
	Verified bool             `json:"verified,omitempty"`
}

// BuildSteps computes the full RSA trace: key generation from p, q and e,
// encryption of message, decryption of the resulting ciphertext, and a
// computed (never assumed) verification that the recovered plaintext
// equals the input. Parameter validation failures surface the engine's
// categorical errors unchanged.
func BuildSteps(message, p, q, e int64) (*trace.Sequence, error) {
	keys, err := GenerateKeys(p, q, e)
	if err != nil {
		return nil, err
	}

	cipher, err := Encrypt(message, keys.E, keys.N)
	if err != nil {
		return nil, err
	}

	plain, err := Decrypt(cipher, keys.D, keys.N)
	if err != nil {
		return nil, err
	}

	var b trace.Builder

	add := func(phase Phase, op Operation, title, narrative, formula string, values map[string]int64) {
		b.Append(Step{
			Meta: trace.Meta{
				Algo:      trace.AlgorithmRSA,
				StepID:    fmt.Sprintf("rsa-%s", op),
				Title:     title,
				Narrative: narrative,
			},
			Phase:   phase,
			Op:      op,
			Formula: formula,
			Values:  values,
		})
	}

	add(PhaseKeygen, OpChoosePrimes,
		"Choose primes",
		"Two distinct primes are the secret foundation of the key pair.",
		fmt.Sprintf("p = %d, q = %d", keys.P, keys.Q),
		map[string]int64{"p": keys.P, "q": keys.Q})

	add(PhaseKeygen, OpComputeN,
		"Compute the modulus",
		"The modulus n is published; recovering p and q from it is the hard problem RSA rests on.",
		fmt.Sprintf("n = p × q = %d × %d = %d", keys.P, keys.Q, keys.N),
		map[string]int64{"n": keys.N})

	add(PhaseKeygen, OpComputePhi,
		"Compute Euler's totient",
		"φ(n) counts the integers below n coprime to it; for a product of two primes it is (p-1)(q-1).",
		fmt.Sprintf("φ(n) = (p-1) × (q-1) = %d × %d = %d", keys.P-1, keys.Q-1, keys.Phi),
		map[string]int64{"phi": keys.Phi})

	add(PhaseKeygen, OpChooseE,
		"Choose the public exponent",
		"e must be coprime to φ(n) so that a modular inverse exists.",
		fmt.Sprintf("gcd(e, φ(n)) = gcd(%d, %d) = 1", keys.E, keys.Phi),
		map[string]int64{"e": keys.E})

	add(PhaseKeygen, OpComputeD,
		"Compute the private exponent",
		"d inverts e modulo φ(n), found with the extended Euclidean algorithm.",
		fmt.Sprintf("d = e⁻¹ mod φ(n) = %d⁻¹ mod %d = %d", keys.E, keys.Phi, keys.D),
		map[string]int64{"d": keys.D})

	add(PhaseKeygen, OpShowKeys,
		"The key pair",
		"The public key encrypts; the private key decrypts.",
		fmt.Sprintf("public (e, n) = (%d, %d), private (d, n) = (%d, %d)", keys.E, keys.N, keys.D, keys.N),
		map[string]int64{"e": keys.E, "d": keys.D, "n": keys.N})

	add(PhaseEncrypt, OpInputMessage,
		"The message",
		"The plaintext is a number below n.",
		fmt.Sprintf("M = %d", message),
		map[string]int64{"m": message})

	add(PhaseEncrypt, OpComputePower,
		"Encrypt",
		"Encryption is modular exponentiation with the public exponent.",
		fmt.Sprintf("C = M^e mod n = %d^%d mod %d = %d", message, keys.E, keys.N, cipher),
		map[string]int64{"c": cipher})

	add(PhaseEncrypt, OpShowCipher,
		"The ciphertext",
		"Only the private exponent can undo this power.",
		fmt.Sprintf("C = %d", cipher),
		map[string]int64{"c": cipher})

	add(PhaseDecrypt, OpInputCipher,
		"The ciphertext arrives",
		"Decryption starts from the received ciphertext.",
		fmt.Sprintf("C = %d", cipher),
		map[string]int64{"c": cipher})

	add(PhaseDecrypt, OpComputeDecrypt,
		"Decrypt",
		"Decryption is modular exponentiation with the private exponent.",
		fmt.Sprintf("M = C^d mod n = %d^%d mod %d = %d", cipher, keys.D, keys.N, plain),
		map[string]int64{"m": plain})

	// The verification is computed above, never assumed, so a keygen or
	// arithmetic bug is observable here.
	b.Append(Step{
		Meta: trace.Meta{
			Algo:      trace.AlgorithmRSA,
			StepID:    fmt.Sprintf("rsa-%s", OpShowPlain),
			Title:     "Round trip",
			Narrative: fmt.Sprintf("The recovered plaintext %d matches the original message %d.", plain, message),
		},
		Phase:    PhaseDecrypt,
		Op:       OpShowPlain,
		Formula:  fmt.Sprintf("M = %d", plain),
		Values:   map[string]int64{"m": plain, "original": message},
		Verified: plain == message,
	})

	return b.Sequence(), nil
}
