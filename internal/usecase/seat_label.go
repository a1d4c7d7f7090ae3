package usecase

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxRows is the largest plan height addressable with single-letter row labels.
const MaxRows = 26

// LabelToIndices converts a seat label such as "C5" into zero-based (row, col).
func LabelToIndices(label string, numRows, seatsPerRow int) (int, int, error) {
	label = strings.TrimSpace(label)
	if len(label) < 2 {
		return 0, 0, fmt.Errorf("%w %q: expected a row letter followed by a seat number", ErrInvalidSeatLabel, label)
	}

	letter := label[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return 0, 0, fmt.Errorf("%w %q: row must be a letter", ErrInvalidSeatLabel, label)
	}
	row := int(letter - 'A')
	if row >= numRows {
		return 0, 0, fmt.Errorf("%w %q: row %c is outside rows A-%c", ErrInvalidSeatLabel, label, letter, 'A'+byte(numRows-1))
	}

	digits := label[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, 0, fmt.Errorf("%w %q: seat number must be numeric", ErrInvalidSeatLabel, label)
		}
	}
	num, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, fmt.Errorf("%w %q: %v", ErrInvalidSeatLabel, label, err)
	}
	if num < 1 || num > seatsPerRow {
		return 0, 0, fmt.Errorf("%w %q: seat number must be between 1 and %d", ErrInvalidSeatLabel, label, seatsPerRow)
	}

	return row, num - 1, nil
}

// IndicesToLabel is the inverse of LabelToIndices.
func IndicesToLabel(row, col, numRows, seatsPerRow int) (string, error) {
	if numRows > MaxRows {
		return "", fmt.Errorf("%w: plans with more than %d rows have no single-letter labels", ErrInvalidSeatLabel, MaxRows)
	}
	if row < 0 || row >= numRows || col < 0 || col >= seatsPerRow {
		return "", fmt.Errorf("%w: seat (%d, %d) is outside a %dx%d plan", ErrInvalidSeatLabel, row, col, numRows, seatsPerRow)
	}
	return fmt.Sprintf("%c%d", 'A'+byte(row), col+1), nil
}
