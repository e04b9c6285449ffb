package ui

import (
	"fmt"
	"strings"

	"github.com/lumipallolabs/diskscope/internal/model"
	"github.com/lumipallolabs/diskscope/internal/util"
)

// RenderTree renders a completed scan tree as indented text, children
// sorted largest-first. Directories without children carry estimated
// sizes and are marked as such.
func RenderTree(root *model.DiskItem) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(root.Path))
	b.WriteString("  ")
	b.WriteString(SizeStyle.Render(util.FormatSize(root.Size)))
	b.WriteString("\n")
	renderChildren(&b, root, "", root.Size)
	return b.String()
}

func renderChildren(b *strings.Builder, node *model.DiskItem, indent string, total int64) {
	// Copy before sorting so the caller's tree stays in enumeration order
	children := make([]*model.DiskItem, len(node.Children))
	copy(children, node.Children)
	model.SortBySize(children)

	for i, child := range children {
		connector := "├── "
		childIndent := indent + "│   "
		if i == len(children)-1 {
			connector = "└── "
			childIndent = indent + "    "
		}

		name := FileStyle.Render(child.Name)
		size := SizeStyle.Render(util.FormatSize(child.Size))
		if child.IsDir {
			name = DirStyle.Render(child.Name + "/")
			if child.Children == nil {
				size = EstimateStyle.Render("~" + util.FormatSize(child.Size))
			}
		}

		pct := util.Percent(child.Size, total)
		b.WriteString(fmt.Sprintf("%s%s%s  %s %s\n",
			indent, connector, name, size,
			MutedStyle.Render(fmt.Sprintf("(%.1f%%)", pct))))

		if child.IsDir && child.Children != nil {
			renderChildren(b, child, childIndent, total)
		}
	}
}

// RenderDrives renders the volume list with capacity bars.
func RenderDrives(drives []model.Drive) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Mounted volumes"))
	b.WriteString("\n\n")

	for _, d := range drives {
		pct := d.UsedPercent()
		bar := util.Bar(pct, 20)

		style := SizeStyle
		if pct >= 90 {
			style = ErrorStyle
		} else if pct >= 75 {
			style = EstimateStyle
		}

		b.WriteString(fmt.Sprintf("%-24s %s %s  %s free of %s\n",
			util.TruncateString(d.MountPoint, 24),
			style.Render(bar),
			MutedStyle.Render(fmt.Sprintf("%5.1f%%", pct)),
			util.FormatSize(int64(d.AvailableSpace)),
			util.FormatSize(int64(d.TotalSpace))))
	}

	return b.String()
}
