// Command irdump reads the frame dump a translator prints on its serial
// port, checks every frame by decoding its samples again and saves the
// frames as CSV.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/tarm/serial"
)

func parseFlags() (port string, baud int, in, out string) {
	flag.StringVar(&port, "serial", "", "Specifies the serial port in the form /dev/xxx")
	flag.IntVar(&baud, "baud", 115200, "Specifies the baud rate of the serial port")
	flag.StringVar(&in, "in", "", "Read a saved dump instead of a serial port")
	flag.StringVar(&out, "csv", "output.csv", "CSV file to write")
	flag.Parse()

	if port == "" && in == "" {
		fmt.Println("Serial port not specified")
		flag.Usage()
		os.Exit(2)
	}
	return
}

func open(port string, baud int, in string) (io.ReadCloser, error) {
	if in != "" {
		return os.Open(in)
	}
	if _, err := os.Stat(port); err != nil {
		return nil, err
	}
	return serial.OpenPort(&serial.Config{Name: port, Baud: baud})
}

func main() {
	port, baud, in, out := parseFlags()

	src, err := open(port, baud, in)
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		signalChannel := make(chan os.Signal, 1)
		signal.Notify(signalChannel, os.Interrupt)
		fmt.Println("Press Ctrl-C to exit program")
		<-signalChannel
		src.Close()
	}()

	rows, err := collect(io.TeeReader(src, os.Stdout), func(r row) {
		if r.err != nil {
			log.Printf("frame %d: %v", r.index, r.err)
		}
		fmt.Println("Recorded", r.index+1, "frames")
	})
	if err != nil && !errors.Is(err, os.ErrClosed) {
		log.Print(err)
	}

	fmt.Println("Saving data")
	file, err := os.Create(out)
	if err != nil {
		log.Fatal(err)
	}
	if err := writeCSV(file, rows); err != nil {
		log.Fatal(err)
	}
	if err := file.Close(); err != nil {
		log.Fatal(err)
	}
}
