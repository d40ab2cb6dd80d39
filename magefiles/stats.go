package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
)

// skipDirs are never counted.
var skipDirs = map[string]bool{
	"vendor":    true,
	".git":      true,
	binaryDir:   true,
	"magefiles": true,
	"_examples": true,
}

type locCount struct {
	prod, test int
}

// Stats prints Go lines of code per package and documentation word counts.
func Stats() error {
	perDir := map[string]*locCount{}

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if skipDirs[path] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		count, countErr := countLines(path)
		if countErr != nil {
			return nil
		}
		dir := filepath.Dir(path)
		if perDir[dir] == nil {
			perDir[dir] = &locCount{}
		}
		if strings.HasSuffix(path, "_test.go") {
			perDir[dir].test += count
		} else {
			perDir[dir].prod += count
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(perDir))
	for dir := range perDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("PACKAGE", "PROD", "TEST")
	var total locCount
	for _, dir := range dirs {
		c := perDir[dir]
		tbl.AddRow(dir, humanize.Comma(int64(c.prod)), humanize.Comma(int64(c.test)))
		total.prod += c.prod
		total.test += c.test
	}
	tbl.AddRow("total", humanize.Comma(int64(total.prod)), humanize.Comma(int64(total.test)))
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	fmt.Println(tbl)

	words, err := countWordsInGlob("*.md")
	if err != nil {
		return err
	}
	fmt.Printf("\nWords (documentation): %s\n", humanize.Comma(int64(words)))
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}

func countWordsInGlob(pattern string) (int, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, nil
	}
	total := 0
	for _, path := range matches {
		words, wordErr := countWordsInFile(path)
		if wordErr != nil {
			continue
		}
		total += words
	}
	return total, nil
}

func countWordsInFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	count := 0
	inWord := false
	for _, r := range string(data) {
		if unicode.IsSpace(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			count++
		}
	}
	return count, nil
}
