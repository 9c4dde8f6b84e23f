package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	pages []string
	err   error
}

func (f fakeSource) Pages(string) ([]string, error) {
	return f.pages, f.err
}

type fakeRecognizer struct {
	text  map[int]string
	err   error
	calls map[int]int
}

func newFakeRecognizer(text map[int]string) *fakeRecognizer {
	return &fakeRecognizer{text: text, calls: make(map[int]int)}
}

func (f *fakeRecognizer) RecognizePage(_ context.Context, _ string, page int) (string, error) {
	f.calls[page]++
	if f.err != nil {
		return "", f.err
	}
	return f.text[page], nil
}

func newAcquirer(cfg AcquirerConfig, src PageSource, rec PageRecognizer) *Acquirer {
	return NewAcquirer(cfg, src, rec, nil)
}

func TestAcquire_NativeTextSkipsOCR(t *testing.T) {
	rec := newFakeRecognizer(nil)
	a := newAcquirer(AcquirerConfig{OCREnabled: true}, fakeSource{pages: []string{"page one", "page two"}}, rec)

	res, err := a.Acquire(context.Background(), "doc.pdf")
	require.NoError(t, err)

	assert.Equal(t, "page one\npage two", res.Text)
	assert.Equal(t, MethodPDFText, res.Method)
	assert.Zero(t, res.OCRPages)
	assert.Empty(t, rec.calls, "OCR must never run when the text layer is present")
}

func TestAcquire_BlankPagesOCRdExactlyOnce(t *testing.T) {
	rec := newFakeRecognizer(map[int]string{1: "scanned one", 2: "scanned two", 3: "scanned three"})
	a := newAcquirer(AcquirerConfig{OCREnabled: true}, fakeSource{pages: []string{"", " ", ""}}, rec)

	res, err := a.Acquire(context.Background(), "scan.pdf")
	require.NoError(t, err)

	assert.Equal(t, "scanned one\nscanned two\nscanned three", res.Text)
	assert.Equal(t, MethodPDFOCR, res.Method)
	assert.Equal(t, 3, res.OCRPages)
	for page := 1; page <= 3; page++ {
		assert.Equal(t, 1, rec.calls[page], "page %d must be OCR'd exactly once", page)
	}
}

func TestAcquire_MixedPages(t *testing.T) {
	rec := newFakeRecognizer(map[int]string{2: "from ocr"})
	a := newAcquirer(AcquirerConfig{OCREnabled: true}, fakeSource{pages: []string{"native", "", "native too"}}, rec)

	res, err := a.Acquire(context.Background(), "mixed.pdf")
	require.NoError(t, err)

	assert.Equal(t, "native\nfrom ocr\nnative too", res.Text)
	assert.Equal(t, MethodMixed, res.Method)
	assert.Equal(t, 1, res.OCRPages)
	assert.Equal(t, map[int]int{2: 1}, rec.calls)
}

func TestAcquire_OCRDisabled(t *testing.T) {
	rec := newFakeRecognizer(map[int]string{1: "should not appear"})
	a := newAcquirer(AcquirerConfig{OCREnabled: false}, fakeSource{pages: []string{"", "text"}}, rec)

	res, err := a.Acquire(context.Background(), "scan.pdf")
	require.NoError(t, err)

	assert.Equal(t, "text", res.Text)
	assert.Empty(t, rec.calls)
}

func TestAcquire_OCRFailureIsWarning(t *testing.T) {
	rec := newFakeRecognizer(nil)
	rec.err = errors.New("tesseract: exit status 1")
	a := newAcquirer(AcquirerConfig{OCREnabled: true}, fakeSource{pages: []string{"good", ""}}, rec)

	res, err := a.Acquire(context.Background(), "doc.pdf")
	require.NoError(t, err)

	assert.Equal(t, "good", res.Text)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "tesseract")
}

func TestAcquire_TOCMarkerEndsScan(t *testing.T) {
	pages := []string{"cover", "about", "Table of Contents\n1. Intro", "body after toc"}
	rec := newFakeRecognizer(nil)
	a := newAcquirer(AcquirerConfig{OCREnabled: true, TOCKeywords: []string{"table of contents"}}, fakeSource{pages: pages}, rec)

	res, err := a.Acquire(context.Background(), "book.pdf")
	require.NoError(t, err)

	// Only the pages before the marker are read.
	assert.Equal(t, 2, res.Scanned)
	assert.Equal(t, "cover\nabout", res.Text)
}

func TestAcquire_MarkerOnFirstPageStillReadsIt(t *testing.T) {
	pages := []string{"Contents\ninfo@acme.com", "more"}
	a := newAcquirer(AcquirerConfig{OCREnabled: true, TOCKeywords: []string{"contents"}}, fakeSource{pages: pages}, newFakeRecognizer(nil))

	res, err := a.Acquire(context.Background(), "short.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scanned)
	assert.Contains(t, res.Text, "info@acme.com")
}

func TestAcquire_DefaultBudgetIsFiveOfLargeDoc(t *testing.T) {
	var pages []string
	for i := 0; i < 20; i++ {
		pages = append(pages, fmt.Sprintf("page %d", i+1))
	}
	a := newAcquirer(AcquirerConfig{OCREnabled: true}, fakeSource{pages: pages}, newFakeRecognizer(nil))

	res, err := a.Acquire(context.Background(), "long.pdf")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Scanned)
	assert.Equal(t, 20, res.PageCount)
}

func TestAcquire_MaxPagesCapsBudget(t *testing.T) {
	a := newAcquirer(AcquirerConfig{OCREnabled: true, MaxPages: 2}, fakeSource{pages: []string{"a", "b", "c", "d"}}, newFakeRecognizer(nil))

	res, err := a.Acquire(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Scanned)
	assert.Equal(t, "a\nb", res.Text)
}

func TestAcquire_SourceError(t *testing.T) {
	a := newAcquirer(AcquirerConfig{}, fakeSource{err: errors.New("open pdf: corrupt")}, newFakeRecognizer(nil))

	_, err := a.Acquire(context.Background(), "bad.pdf")
	require.Error(t, err)
}
