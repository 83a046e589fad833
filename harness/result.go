// Package harness runs the external PSI benchmark executable and parses
// its per-iteration output.
package harness

// RunResult is one iteration reported by the benchmark executable.
type RunResult struct {
	SenderSeconds          float64 `json:"sender_seconds"`
	ReceiverEncryptSeconds float64 `json:"receiver_encrypt_seconds"`
	ReceiverDecryptSeconds float64 `json:"receiver_decrypt_seconds"`
	Matches                int     `json:"matches"`
	// MatchRatio is Matches divided by the case's receiver set size.
	MatchRatio float64 `json:"match_ratio"`
}
