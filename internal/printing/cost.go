package printing

import (
	"strconv"
	"strings"

	"studiohub/internal/config"
)

// parseSheetSize splits a "WxH" size string into inches.
func parseSheetSize(size string) (w, h float64, ok bool) {
	parts := strings.SplitN(strings.ToLower(size), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, errW := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errW != nil || errH != nil {
		return 0, 0, false
	}
	return w, h, true
}

// EstimateCost prices one sheet: paper by fed length including spoilage,
// ink by printed area. Unparseable sizes cost nothing.
func EstimateCost(sheetSize string, cost config.PrintCost) float64 {
	w, h, ok := parseSheetSize(sheetSize)
	if !ok {
		return 0
	}

	lengthIn := max(w, h)
	paperFeet := (lengthIn / 12.0) * (1.0 + max(0.0, cost.WastePct))
	paperCost := paperFeet * cost.PaperCostPerFoot

	areaSqFt := (w * h) / 144.0
	inkCost := areaSqFt * cost.InkMLPerSqFt * cost.InkCostPerML

	total := paperCost + inkCost
	if total > 0 {
		return total
	}
	return 0
}

// PlannedLengthIn is the feed length a sheet consumes: the long edge, so an
// 18x24 sheet advances the roll 24 inches. The actual length of a botched
// print comes from the failure report instead.
func PlannedLengthIn(sheetSize string) float64 {
	w, h, ok := parseSheetSize(sheetSize)
	if !ok {
		return 0
	}
	return max(w, h)
}

// plannedLengthForJob mirrors the footage committed when a logged job was
// sent: pairs fed a 24in sheet, singles their own long edge.
func plannedLengthForJob(mode, size string) float64 {
	if strings.EqualFold(mode, "2up") {
		return 24.0
	}
	return PlannedLengthIn(size)
}
