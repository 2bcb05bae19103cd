package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateReceiptNumber returns a process-unique receipt token of the form
// RR-<unix-ms>-<9 hex chars>. The payments table keeps a unique index on the
// column as a backstop.
func GenerateReceiptNumber() string {
	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("RR-%d-%s", time.Now().UnixMilli(), fragment)
}
