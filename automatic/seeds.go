package automatic

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"lukechampine.com/frand"
)

// GameSeeds returns one piece seed per game. A non-zero base gives the
// reproducible run base, base+1, ...; zero gives random seeds.
func GameSeeds(base uint64, n int) ([]uint64, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative game count %d", n)
	}
	seeds := make([]uint64, n)
	for i := range seeds {
		if base != 0 {
			seeds[i] = base + uint64(i)
		} else {
			seeds[i] = frand.Uint64n(math.MaxUint64) + 1
		}
	}
	return seeds, nil
}

// SaveSeeds writes seeds to a file, one per line.
func SaveSeeds(seeds []uint64, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create seed file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err = writer.WriteString("# Piece seeds, one game per line\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, seed := range seeds {
		if _, err = writer.WriteString(strconv.FormatUint(seed, 10) + "\n"); err != nil {
			return fmt.Errorf("failed to write seed %d: %w", i, err)
		}
	}
	return writer.Flush()
}

// LoadSeeds reads a file written by SaveSeeds. Blank lines and lines
// starting with # are skipped.
func LoadSeeds(path string) ([]uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	var seeds []uint64
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seed, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid seed: %w", lineNum, err)
		}
		if seed == 0 {
			return nil, fmt.Errorf("line %d: seed must be non-zero", lineNum)
		}
		seeds = append(seeds, seed)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}
	return seeds, nil
}
