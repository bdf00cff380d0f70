/*
ident.go - Opaque identifier generation

PURPOSE:
  Produces identifiers unique within a process with high probability:
  a millisecond timestamp in base36 followed by a random suffix. The time
  component keeps ids roughly sortable by creation; the random component
  makes same-millisecond collisions vanishingly unlikely. Collision handling
  beyond that is an accepted risk.

SEE ALSO:
  - core.go: assigns these to every new record
*/
package ledger

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh opaque identifier: base36 millisecond timestamp plus
// the first groups of a random UUID.
func NewID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return ts + random
}

// GenerateAccountNumber returns a display account number in the bank's
// BOA-XXXXXXXXXX format. Uniqueness is the caller's responsibility; ten
// random digits make collisions unlikely at demo scale.
func GenerateAccountNumber() string {
	return fmt.Sprintf("BOA-%010d", rand.Int63n(10_000_000_000))
}

// GenerateTempPassword returns an initial password for accounts created
// without one, in the TEMP-prefixed format operators expect to read back.
func GenerateTempPassword() string {
	return fmt.Sprintf("TEMP%06d", rand.Intn(1_000_000))
}
