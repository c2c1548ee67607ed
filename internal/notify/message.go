package notify

import (
	"fmt"
	"time"

	"github.com/Ivnbrylle/Auto-Remediation/internal/remediation"
)

// Embed colors carried over from the original runbook notifications.
const (
	colorRed     = 0xE74C3C
	colorDarkRed = 0x992D22
	colorYellow  = 0xFFFF00
	colorOrange  = 0xE67E22
	colorGreen   = 0x2ECC71
)

// Summary is the rendered content of one decision notification.
type Summary struct {
	Title       string
	Description string
	Color       int
}

// Summarize renders the notification content for a decision.
// procedure is the remediation procedure the dispatcher runs, named so
// operators can find the executed document.
func Summarize(n *Notification, procedure string) Summary {
	out := n.Outcome

	switch {
	case out.SkipReason == remediation.SkipReasonMaintenance:
		return Summary{
			Title: "⚠️ Maintenance Mode Detected",
			Description: fmt.Sprintf("**Reason:** %s\n**Action:** Automation skipped to avoid interference.",
				n.Event.Reason),
			Color: colorYellow,
		}

	case out.SkipReason == remediation.SkipReasonLookupFailed:
		return Summary{
			Title: "❓ Maintenance Check Failed",
			Description: fmt.Sprintf("**Reason:** %s\n**Action:** Automation skipped; maintenance state could not be read.",
				n.Event.Reason),
			Color: colorOrange,
		}

	case out.SkipReason == remediation.SkipReasonResolved:
		return Summary{
			Title: "✅ Alarm Already Resolved",
			Description: fmt.Sprintf("**Reason:** %s\n**Action:** Automation skipped; the alarm cleared before dispatch.",
				n.Event.Reason),
			Color: colorGreen,
		}

	case out.Succeeded:
		return Summary{
			Title: "🚨 Auto-Remediation Triggered",
			Description: fmt.Sprintf(
				"**Cause of Downtime:** `%s`\n**Time Since Detection:** `%d seconds`\n**Remediation:** Triggered `%s` successfully (command `%s`).",
				n.Event.Reason,
				downtimeSeconds(n.Event.Timestamp),
				procedure,
				out.CommandID),
			Color: colorRed,
		}

	default:
		return Summary{
			Title: "❌ Remediation Dispatch Failed",
			Description: fmt.Sprintf("**Cause of Downtime:** `%s`\n**Remediation:** Dispatch of `%s` was rejected; manual intervention required.",
				n.Event.Reason,
				procedure),
			Color: colorDarkRed,
		}
	}
}

func downtimeSeconds(detectedAt time.Time) int64 {
	if detectedAt.IsZero() {
		return 0
	}
	return int64(time.Since(detectedAt).Seconds())
}
