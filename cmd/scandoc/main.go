// scandoc is a command-line tool for turning photographed documents into
// searchable PDFs.
//
// Each photo is enhanced for OCR, recognized with several page segmentation
// settings, and written as a PDF whose first page is the original photo and
// whose following pages hold the extracted text.
//
// Configuration:
//
// An optional YAML file selects the OCR engine and tunes the pipeline:
//
//	engine: tesseract        # tesseract | gosseract | documentai
//	language: eng
//	tesseract:
//	  path: tesseract
//	ocr:
//	  workers: 4
//	  timeout: 2m
//	pdf:
//	  page_size: Letter
//	batch:
//	  extensions: [".jpg", ".jpeg"]
//
// SCANDOC_ENGINE, SCANDOC_LANGUAGE, SCANDOC_TESSERACT_PATH and
// SCANDOC_TESSDATA_DIR override the file, and may also be set in a .env file.
//
// Usage:
//
//	scandoc convert receipt.jpg receipt.pdf
//	scandoc batch ./photos ./pdfs --report report.json
//	scandoc inspect receipt.jpg --json
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
