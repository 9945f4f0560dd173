// README: Export handlers: iCalendar and spreadsheet downloads of a trip.
package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"voyager/internal/modules/export"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	trips Collections
	now   func() time.Time
}

func NewExportHandler(col Collections) *ExportHandler {
	return &ExportHandler{trips: col, now: time.Now}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// fileName turns a trip name into an ASCII attachment name; accents are
// dropped before unsafe characters collapse to hyphens.
func fileName(name, ext string) string {
	if folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name); err == nil {
		name = folded
	}
	base := strings.Trim(unsafeFileChars.ReplaceAllString(name, "-"), "-")
	if base == "" {
		base = "trip"
	}
	return base + ext
}

// Calendar handles GET /api/trips/:id/calendar.ics.
func (h *ExportHandler) Calendar(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	t, err := managerFor(c, h.trips).Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	body, err := export.Calendar(t, h.now())
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName(t.Name, ".ics")))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// Spreadsheet handles GET /api/trips/:id/export.xlsx.
func (h *ExportHandler) Spreadsheet(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	t, err := managerFor(c, h.trips).Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	body, err := export.Spreadsheet(t)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName(t.Name, ".xlsx")))
	c.Data(http.StatusOK, xlsxType, body)
}
