package main

import "pdf-desk/cmd/pdfdesk/cli"

func main() {
	cli.Execute()
}
