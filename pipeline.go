package lvimg

import (
	"bytes"
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/lvimg/lvbin"
)

func (l *LVImg) findSources(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			// Font files are also emitted as C arrays but are not images
			if filepath.Ext(file) != ".c" || strings.Contains(info.Name(), "font") {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// convertFile converts every asset declared in one C source file,
// writing a .bin and optionally a PNG per asset into target. A file
// whose assets fail to convert is reported through the logger; it
// never aborts the batch.
func (l *LVImg) convertFile(file, target string, png bool, scale int) error {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return err
	}

	assets, err := Extract(b)
	if err != nil {
		l.logger.Printf("Skipping \"%s\": %v\n", file, err)
		return nil
	}

	for _, a := range assets {
		bin, err := a.Container()
		if err != nil {
			l.logger.Printf("No container for \"%s\" in \"%s\": %v\n", a.Name, file, err)
			continue
		}

		if err := ioutil.WriteFile(filepath.Join(target, a.Name+".bin"), bin, 0644); err != nil {
			return err
		}

		if png {
			m, err := lvbin.Decode(bytes.NewReader(bin))
			if err != nil {
				l.logger.Printf("Cannot decode \"%s\": %v\n", a.Name, err)
				continue
			}

			f, err := os.Create(filepath.Join(target, a.Name+".png"))
			if err != nil {
				return err
			}
			if err := WritePNG(f, m, scale); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}

		if l.db != nil {
			h, _, err := lvbin.Split(bin)
			if err != nil {
				continue
			}
			if _, err := l.db.Add(a.Name, h, bin); err != nil {
				return err
			}
		}
	}

	return nil
}

func (l *LVImg) fileWorker(ctx context.Context, in <-chan string, target string, png bool, scale int) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := l.convertFile(file, target, png, scale); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Convert converts the C source file, or every C source file below the
// directory, at source into containers under target. Each image
// conversion is independent; files that fail to convert are logged and
// skipped.
func (l *LVImg) Convert(source, target string, png bool, scale int) error {
	src, err := filepath.Abs(source)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(target, 0755); err != nil {
		return err
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return l.convertFile(src, target, png, scale)
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := l.findSources(ctx, src)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < 10; i++ {
		errc, err := l.fileWorker(ctx, files, target, png, scale)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
