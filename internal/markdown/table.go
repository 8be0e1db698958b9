package markdown

import (
	"fmt"
	"io"
	"os"
	"strings"

	"commitnotes/internal/common"
	"commitnotes/pkg/errors"
	"commitnotes/pkg/models"
	"github.com/olekukonko/tablewriter"
)

// Header is the column layout of the commit index table
var Header = []string{
	"Commit",
	"Commit Hash",
	"Author",
	"Prompts with GPT",
	"给 GPT 的 Prompts",
}

// Row renders one record as table cells. Only the displayed hash is shortened.
func Row(rec models.CommitRecord) []string {
	return []string{
		link(rec.Title, rec.URL),
		rec.ShortHash(),
		link(rec.AuthorName, rec.AuthorURL),
		link(Header[3], rec.PromptLink),
		link(Header[4], rec.PromptLinkZh),
	}
}

func link(text, target string) string {
	// A bare "|" would split the cell.
	text = strings.ReplaceAll(text, "|", `\|`)
	return fmt.Sprintf("[%s](%s)", text, target)
}

// Write renders records as a markdown pipe table into w
func Write(w io.Writer, records []models.CommitRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(Header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	for _, rec := range records {
		table.Append(Row(rec))
	}
	table.Render()
}

// Render returns the markdown table for records
func Render(records []models.CommitRecord) string {
	var b strings.Builder
	Write(&b, records)
	return b.String()
}

// Append adds the rendered table to the end of path, creating the file if it
// does not exist. Existing content is never rewritten. An empty record list
// leaves the file untouched.
func Append(records []models.CommitRecord, path string) error {
	if len(records) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, common.FilePermissionNormal)
	if err != nil {
		return errors.FilesystemError("open index file", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return errors.FilesystemError("stat index file", path, err)
	}

	var b strings.Builder
	if info.Size() > 0 {
		b.WriteString("\n")
	}
	Write(&b, records)

	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return errors.FilesystemError("append to", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.FilesystemError("close", path, err)
	}
	return nil
}
