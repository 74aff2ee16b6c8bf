package engine

import (
	"archive/zip"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/tinyzimmer/zipper/pkg/archive"
	"github.com/tinyzimmer/zipper/pkg/config"
	"github.com/tinyzimmer/zipper/pkg/types"
	"github.com/tinyzimmer/zipper/pkg/util"
)

func entryNames(zipPath, charset string) []string {
	entries, err := archive.List(zipPath, charset, false)
	Expect(err).ToNot(HaveOccurred())
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

var _ = Describe("Engine", func() {

	var (
		tmpDir   string
		srcDir   string
		target   string
		destDir  string
		settings types.Settings
		obs      *recorder
		eng      types.Engine
		err      error
	)

	tree := map[string]string{
		"project/README.md":          "# readme\n",
		"project/src/main.go":        "package main\n",
		"project/src/lib/helpers.go": "package lib\n",
		"project/assets/logo.bin":    string([]byte{0x00, 0xff, 0x10, 0x7f, 0x80}),
	}

	BeforeEach(func() {
		tmpDir, err = util.GetTempDir()
		Expect(err).ToNot(HaveOccurred())
		srcDir = filepath.Join(tmpDir, "src")
		writeTree(srcDir, tree, "project/empty", "project/src/nested/empty")
		target = filepath.Join(tmpDir, "out.zip")
		destDir = filepath.Join(tmpDir, "dest")
		settings = config.DefaultSettings()
		obs = &recorder{}
	})

	AfterEach(func() { os.RemoveAll(tmpDir) })

	JustBeforeEach(func() {
		eng = New(settings, WithObserver(obs))
	})

	Describe("Settings", func() {
		BeforeEach(func() {
			settings = types.Settings{BufferSize: 300, Level: 0, Encoding: "gbk", Overwrite: false}
		})
		It("Should normalize settings on creation and reset", func() {
			Expect(eng.Settings()).To(Equal(types.Settings{BufferSize: 512, Level: 6, Encoding: "GBK"}))
			eng.Reset(types.Settings{BufferSize: 70000, Level: 3, Overwrite: true})
			Expect(eng.Settings()).To(Equal(types.Settings{BufferSize: 65536, Level: 3, Encoding: "UTF-8", Overwrite: true}))
			Expect(eng.Usable()).To(BeTrue())
		})

		It("Should read its settings from a configuration provider", func() {
			p, err := config.NewProvider(filepath.Join(tmpDir, config.FileName))
			Expect(err).ToNot(HaveOccurred())
			Expect(p.Set(config.KeyBufferSize, "5000")).To(Succeed())
			Expect(p.Set(config.KeyCoverageMode, "false")).To(Succeed())
			fromConfig := NewFromProvider(p, WithObserver(obs))
			Expect(fromConfig.Settings().BufferSize).To(Equal(8192))
			Expect(fromConfig.Settings().Overwrite).To(BeFalse())
			Expect(fromConfig.Settings().Level).To(Equal(config.DefaultLevel))
		})
	})

	Describe("Packing and unpacking a tree", func() {
		It("Should reproduce names, contents and empty directories", func() {
			Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
			Expect(eng.Unpack(target, destDir)).To(Succeed())
			Expect(readTree(filepath.Join(destDir, "src"))).To(Equal(readTree(srcDir)))
		})

		It("Should root every source at the name of its parent directory", func() {
			writeTree(srcDir, map[string]string{"notes.txt": "notes"})
			Expect(eng.Pack([]string{filepath.Join(srcDir, "notes.txt"), filepath.Join(srcDir, "project", "src")}, target)).To(Succeed())
			Expect(entryNames(target, settings.Encoding)).To(Equal([]string{
				"src/notes.txt",
				"project/src/lib/helpers.go",
				"project/src/main.go",
				"project/src/nested/empty/",
			}))
		})

		It("Should write entries depth first in directory listing order", func() {
			Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
			Expect(entryNames(target, settings.Encoding)).To(Equal([]string{
				"src/project/README.md",
				"src/project/assets/logo.bin",
				"src/project/empty/",
				"src/project/src/lib/helpers.go",
				"src/project/src/main.go",
				"src/project/src/nested/empty/",
			}))
			Expect(obs.of("written")).To(HaveLen(6))
		})

		It("Should traverse duplicate sources independently", func() {
			readme := filepath.Join(srcDir, "project", "README.md")
			Expect(eng.Pack([]string{readme, readme}, target)).To(Succeed())
			Expect(entryNames(target, settings.Encoding)).To(Equal([]string{"project/README.md", "project/README.md"}))
		})

		It("Should produce archives the standard library can read", func() {
			Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
			zr, err := zip.OpenReader(target)
			Expect(err).ToNot(HaveOccurred())
			defer zr.Close()
			Expect(zr.File).To(HaveLen(6))
			rc, err := zr.File[0].Open()
			Expect(err).ToNot(HaveOccurred())
			body, err := ioutil.ReadAll(rc)
			rc.Close()
			Expect(err).ToNot(HaveOccurred())
			Expect(string(body)).To(Equal("# readme\n"))
		})

		Context("With a non UTF-8 charset", func() {
			BeforeEach(func() {
				settings.Encoding = "GBK"
				writeTree(srcDir, map[string]string{"project/文档/说明.txt": "内容"})
			})
			It("Should round trip non-ascii names", func() {
				Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
				Expect(eng.Unpack(target, destDir)).To(Succeed())
				Expect(readTree(filepath.Join(destDir, "src"))).To(Equal(readTree(srcDir)))
			})
		})

		Context("With the smallest buffer and level", func() {
			BeforeEach(func() {
				settings.BufferSize = config.MinBufferSize
				settings.Level = 1
				big := make([]byte, 10*config.MinBufferSize+7)
				for i := range big {
					big[i] = byte(i % 251)
				}
				writeTree(srcDir, map[string]string{"project/big.bin": string(big)})
			})
			It("Should still stream every byte", func() {
				Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
				Expect(eng.Unpack(target, destDir)).To(Succeed())
				Expect(readTree(filepath.Join(destDir, "src"))).To(Equal(readTree(srcDir)))
			})
		})
	})

	Describe("Packing preconditions", func() {
		It("Should fail with no sources", func() {
			err = eng.Pack(nil, target)
			Expect(errors.Is(err, types.ErrNoInput)).To(BeTrue())
			Expect(target).ToNot(BeAnExistingFile())
			Expect(eng.Usable()).To(BeTrue())
		})

		It("Should fail for a missing source and release everything", func() {
			err = eng.Pack([]string{filepath.Join(srcDir, "project"), filepath.Join(srcDir, "missing")}, target)
			var notFound *types.SourceNotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
			Expect(target).ToNot(BeAnExistingFile())
			Expect(eng.Usable()).To(BeTrue())
			Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
		})

		It("Should keep the previous archive when a later pack fails", func() {
			Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
			err = eng.Pack([]string{filepath.Join(srcDir, "project"), filepath.Join(srcDir, "missing")}, target)
			var notFound *types.SourceNotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
			Expect(entryNames(target, settings.Encoding)).To(HaveLen(6))
			leftovers, err := filepath.Glob(filepath.Join(tmpDir, ".out.zip.*"))
			Expect(err).ToNot(HaveOccurred())
			Expect(leftovers).To(BeEmpty())
		})

		It("Should fail when the target cannot be created", func() {
			err = eng.PackSingle(srcDir, filepath.Join(tmpDir, "missing", "out.zip"))
			var ioErr *types.IOFailureError
			Expect(errors.As(err, &ioErr)).To(BeTrue())
			Expect(eng.Usable()).To(BeTrue())
		})

		It("Should create a timestamped archive inside a directory target", func() {
			outDir := filepath.Join(tmpDir, "archives")
			Expect(os.Mkdir(outDir, 0755)).To(Succeed())
			Expect(eng.PackSingle(filepath.Join(srcDir, "project"), outDir)).To(Succeed())
			matches, err := filepath.Glob(filepath.Join(outDir, "*.zip"))
			Expect(err).ToNot(HaveOccurred())
			Expect(matches).To(HaveLen(1))
		})
	})

	Describe("Packing into a directory concurrently", func() {
		var outDir string

		BeforeEach(func() {
			outDir = filepath.Join(tmpDir, "archives")
			Expect(os.Mkdir(outDir, 0755)).To(Succeed())
		})

		packAll := func(n int) {
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					Expect(eng.PackSingle(filepath.Join(srcDir, "project"), outDir)).To(Succeed())
				}()
			}
			wg.Wait()
		}

		expectArchives := func(n int) {
			matches, err := filepath.Glob(filepath.Join(outDir, "*.zip"))
			Expect(err).ToNot(HaveOccurred())
			Expect(matches).To(HaveLen(n))
			for _, m := range matches {
				Expect(entryNames(m, settings.Encoding)).To(HaveLen(6))
			}
		}

		It("Should give every pack its own archive", func() {
			packAll(8)
			expectArchives(8)
		})

		Context("When coverage mode is disabled", func() {
			BeforeEach(func() { settings.Overwrite = false })
			It("Should never report a generated name as existing", func() {
				packAll(8)
				expectArchives(8)
				Expect(obs.of("exists")).To(BeEmpty())
			})
		})
	})

	Describe("Failing part way through a pack", func() {
		var restore func(string) (io.ReadCloser, error)

		BeforeEach(func() {
			restore = openSource
			openSource = func(name string) (io.ReadCloser, error) {
				if filepath.Base(name) == "main.go" {
					return &brokenReader{}, nil
				}
				return os.Open(name)
			}
		})

		AfterEach(func() { openSource = restore })

		expectNoTempFiles := func() {
			leftovers, err := filepath.Glob(filepath.Join(tmpDir, ".out.zip.*"))
			Expect(err).ToNot(HaveOccurred())
			Expect(leftovers).To(BeEmpty())
		}

		It("Should report the read failure, remove the archive and release the engine", func() {
			err = eng.PackSingle(filepath.Join(srcDir, "project"), target)
			var ioErr *types.IOFailureError
			Expect(errors.As(err, &ioErr)).To(BeTrue())
			Expect(errors.Is(err, errBrokenRead)).To(BeTrue())
			Expect(ioErr.Path).To(HaveSuffix("main.go"))
			Expect(obs.of("written")).ToNot(BeEmpty())
			Expect(target).ToNot(BeAnExistingFile())
			expectNoTempFiles()
			Expect(eng.Usable()).To(BeTrue())

			openSource = restore
			Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
		})

		It("Should remove a timestamped archive it created", func() {
			outDir := filepath.Join(tmpDir, "archives")
			Expect(os.Mkdir(outDir, 0755)).To(Succeed())
			err = eng.PackSingle(filepath.Join(srcDir, "project"), outDir)
			Expect(errors.Is(err, errBrokenRead)).To(BeTrue())
			entries, err := ioutil.ReadDir(outDir)
			Expect(err).ToNot(HaveOccurred())
			Expect(entries).To(BeEmpty())
			Expect(eng.Usable()).To(BeTrue())
		})

		Context("When the target already exists", func() {
			JustBeforeEach(func() {
				openSource = restore
				Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
				openSource = func(name string) (io.ReadCloser, error) { return &brokenReader{}, nil }
			})
			It("Should leave the previous archive in place", func() {
				err = eng.PackSingle(filepath.Join(srcDir, "project"), target)
				Expect(errors.Is(err, errBrokenRead)).To(BeTrue())
				Expect(entryNames(target, settings.Encoding)).To(HaveLen(6))
				expectNoTempFiles()
			})
		})
	})

	Describe("Overwriting an existing archive", func() {
		BeforeEach(func() {
			Expect(ioutil.WriteFile(target, []byte("previous contents"), 0644)).To(Succeed())
		})

		Context("When coverage mode is disabled", func() {
			BeforeEach(func() { settings.Overwrite = false })
			It("Should report the target and leave it untouched", func() {
				err = eng.PackSingle(filepath.Join(srcDir, "project"), target)
				Expect(errors.Is(err, types.ErrTargetExists)).To(BeTrue())
				body, err := ioutil.ReadFile(target)
				Expect(err).ToNot(HaveOccurred())
				Expect(string(body)).To(Equal("previous contents"))
				Expect(obs.of("exists")).To(HaveLen(1))
				Expect(obs.of("written")).To(BeEmpty())
			})
			It("Should report the target before checking the sources", func() {
				err = eng.Pack(nil, target)
				Expect(errors.Is(err, types.ErrTargetExists)).To(BeTrue())
			})
		})

		Context("When coverage mode is enabled", func() {
			It("Should replace the target", func() {
				Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
				Expect(entryNames(target, settings.Encoding)).To(HaveLen(6))
			})
		})
	})

	Describe("Packing a directory that contains the target", func() {
		BeforeEach(func() {
			target = filepath.Join(srcDir, "project", "self.zip")
		})

		Context("When the target does not exist yet", func() {
			It("Should not include the archive in itself", func() {
				Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
				Expect(entryNames(target, settings.Encoding)).ToNot(ContainElement("src/project/self.zip"))
				Expect(entryNames(target, settings.Encoding)).To(HaveLen(6))
				Expect(obs.of("skipped")).To(HaveLen(1))
			})
		})

		Context("When the target already exists", func() {
			BeforeEach(func() {
				Expect(ioutil.WriteFile(target, []byte("stale"), 0644)).To(Succeed())
			})
			It("Should not include the archive in itself", func() {
				Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
				Expect(entryNames(target, settings.Encoding)).ToNot(ContainElement("src/project/self.zip"))
			})
		})
	})

	Describe("Recognizing the archive being written", func() {
		It("Should match a file that appeared at the target path after the pack started", func() {
			out, err := createReplacement(target)
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				out.file.Close()
				Expect(out.discard()).To(Succeed())
			}()

			Expect(ioutil.WriteFile(target, []byte("late"), 0644)).To(Succeed())
			info, err := os.Stat(target)
			Expect(err).ToNot(HaveOccurred())
			Expect(out.excludes(target, info)).To(BeTrue())

			other := filepath.Join(srcDir, "project", "README.md")
			info, err = os.Stat(other)
			Expect(err).ToNot(HaveOccurred())
			Expect(out.excludes(other, info)).To(BeFalse())
		})

		It("Should match the target through a symlinked directory", func() {
			alias := filepath.Join(tmpDir, "alias")
			Expect(os.Symlink(tmpDir, alias)).To(Succeed())
			out, err := createReplacement(filepath.Join(alias, "out.zip"))
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				out.file.Close()
				Expect(out.discard()).To(Succeed())
			}()

			Expect(ioutil.WriteFile(target, []byte("late"), 0644)).To(Succeed())
			info, err := os.Stat(target)
			Expect(err).ToNot(HaveOccurred())
			Expect(out.excludes(target, info)).To(BeTrue())
		})

		Context("When the existing target is replaced during the pack", func() {
			var replacer *replacingObserver

			BeforeEach(func() {
				target = filepath.Join(srcDir, "project", "self.zip")
				Expect(ioutil.WriteFile(target, []byte("stale"), 0644)).To(Succeed())
				replacer = &replacingObserver{path: target}
			})

			JustBeforeEach(func() {
				eng = New(settings, WithObserver(replacer))
			})

			It("Should still leave it out of the archive", func() {
				Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
				Expect(entryNames(target, settings.Encoding)).ToNot(ContainElement("src/project/self.zip"))
				Expect(entryNames(target, settings.Encoding)).To(HaveLen(6))
			})
		})
	})

	Describe("Packing symlinked directories", func() {
		It("Should not loop on a link back to a parent", func() {
			link := filepath.Join(srcDir, "project", "src", "loop")
			Expect(os.Symlink(filepath.Join(srcDir, "project"), link)).To(Succeed())
			Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
			Expect(obs.of("skipped")).To(HaveLen(1))
			Expect(obs.of("skipped")[0].name).To(Equal(link))
		})
	})

	Describe("Unpacking", func() {
		JustBeforeEach(func() {
			Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
		})

		It("Should fail for a missing archive", func() {
			err = eng.Unpack(filepath.Join(tmpDir, "missing.zip"), destDir)
			var notFound *types.SourceNotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})

		It("Should fail when the archive is a directory", func() {
			err = eng.Unpack(srcDir, destDir)
			var notFound *types.SourceNotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})

		It("Should fail when the destination is a file", func() {
			err = eng.Unpack(target, filepath.Join(srcDir, "project", "README.md"))
			var dirErr *types.DirectoryCreateError
			Expect(errors.As(err, &dirErr)).To(BeTrue())
		})

		It("Should fail for a file that is not an archive", func() {
			err = eng.Unpack(filepath.Join(srcDir, "project", "README.md"), destDir)
			var ioErr *types.IOFailureError
			Expect(errors.As(err, &ioErr)).To(BeTrue())
		})

		It("Should create missing destination directories", func() {
			nested := filepath.Join(destDir, "a", "b")
			Expect(eng.Unpack(target, nested)).To(Succeed())
			Expect(filepath.Join(nested, "src", "project", "README.md")).To(BeARegularFile())
		})

		It("Should unpack next to the archive", func() {
			Expect(eng.UnpackHere(target)).To(Succeed())
			Expect(readTree(filepath.Join(tmpDir, "src"))).To(HaveKey("project/README.md"))
			Expect(obs.of("extracted")).To(HaveLen(4))
		})

		Context("When files already exist", func() {
			var readme string

			JustBeforeEach(func() {
				readme = filepath.Join(destDir, "src", "project", "README.md")
				writeTree(destDir, map[string]string{"src/project/README.md": "local changes"})
			})

			Context("And coverage mode is disabled", func() {
				It("Should keep the existing contents and extract the rest", func() {
					eng.Reset(types.Settings{BufferSize: 1024, Level: 6, Overwrite: false})
					Expect(eng.Unpack(target, destDir)).To(Succeed())
					body, err := ioutil.ReadFile(readme)
					Expect(err).ToNot(HaveOccurred())
					Expect(string(body)).To(Equal("local changes"))
					Expect(obs.of("skipped")).To(HaveLen(1))
					Expect(filepath.Join(destDir, "src", "project", "src", "main.go")).To(BeARegularFile())
				})
			})

			Context("And coverage mode is enabled", func() {
				It("Should replace the contents", func() {
					Expect(eng.Unpack(target, destDir)).To(Succeed())
					body, err := ioutil.ReadFile(readme)
					Expect(err).ToNot(HaveOccurred())
					Expect(string(body)).To(Equal("# readme\n"))
				})
			})
		})

		It("Should keep entries with parent references inside the destination", func() {
			evil := filepath.Join(tmpDir, "evil.zip")
			f, err := os.Create(evil)
			Expect(err).ToNot(HaveOccurred())
			zw := zip.NewWriter(f)
			w, err := zw.Create("../../escaped.txt")
			Expect(err).ToNot(HaveOccurred())
			_, err = w.Write([]byte("gotcha"))
			Expect(err).ToNot(HaveOccurred())
			Expect(zw.Close()).To(Succeed())
			Expect(f.Close()).To(Succeed())

			Expect(eng.Unpack(evil, destDir)).To(Succeed())
			Expect(filepath.Join(destDir, "escaped.txt")).To(BeARegularFile())
			Expect(filepath.Join(tmpDir, "escaped.txt")).ToNot(BeAnExistingFile())
		})
	})

	Describe("Unpacking several archives", func() {
		It("Should continue past a failure and report it", func() {
			first := filepath.Join(tmpDir, "first.zip")
			third := filepath.Join(tmpDir, "third.zip")
			Expect(eng.PackSingle(filepath.Join(srcDir, "project", "src"), first)).To(Succeed())
			Expect(eng.PackSingle(filepath.Join(srcDir, "project", "assets"), third)).To(Succeed())

			err = eng.UnpackFiles([]string{first, filepath.Join(tmpDir, "second.zip"), third}, destDir)
			Expect(err).To(HaveOccurred())
			var agg utilerrors.Aggregate
			Expect(errors.As(err, &agg)).To(BeTrue())
			Expect(agg.Errors()).To(HaveLen(1))
			Expect(agg.Error()).To(ContainSubstring("second.zip"))
			Expect(obs.of("failed")).To(HaveLen(1))

			Expect(filepath.Join(destDir, "project", "src", "main.go")).To(BeARegularFile())
			Expect(filepath.Join(destDir, "project", "assets", "logo.bin")).To(BeARegularFile())
		})

		It("Should return nil when every archive succeeds", func() {
			Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
			Expect(eng.UnpackFiles([]string{target, target}, destDir)).To(Succeed())
		})
	})

	Describe("Concurrent packs", func() {
		It("Should never interleave entries of different archives", func() {
			targets := []string{
				filepath.Join(tmpDir, "one.zip"),
				filepath.Join(tmpDir, "two.zip"),
				filepath.Join(tmpDir, "three.zip"),
			}
			var wg sync.WaitGroup
			for _, t := range targets {
				wg.Add(1)
				go func(t string) {
					defer GinkgoRecover()
					defer wg.Done()
					Expect(eng.PackSingle(filepath.Join(srcDir, "project"), t)).To(Succeed())
				}(t)
			}
			wg.Wait()

			written := obs.of("written")
			Expect(written).To(HaveLen(18))
			finished := make(map[string]bool)
			for i, ev := range written {
				Expect(finished).ToNot(HaveKey(ev.archive), "entries of %s resumed after another archive started", ev.archive)
				if i > 0 && written[i-1].archive != ev.archive {
					finished[written[i-1].archive] = true
				}
			}
			for _, t := range targets {
				Expect(entryNames(t, settings.Encoding)).To(HaveLen(6))
			}
		})
	})

	Describe("Engine state", func() {
		var blocker *blockingObserver

		BeforeEach(func() { blocker = newBlockingObserver() })

		JustBeforeEach(func() {
			eng = New(settings, WithObserver(blocker))
		})

		It("Should be busy during a pack and delay resets until it finishes", func() {
			packed := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(packed)
				Expect(eng.PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())
			}()

			Eventually(blocker.started).Should(BeClosed())
			Expect(eng.Usable()).To(BeFalse())

			reset := make(chan struct{})
			go func() {
				defer close(reset)
				eng.Reset(types.Settings{BufferSize: 4096, Level: 2, Overwrite: true})
			}()
			Consistently(reset, "200ms").ShouldNot(BeClosed())
			Expect(eng.Settings().BufferSize).To(Equal(config.DefaultBufferSize))

			close(blocker.release)
			Eventually(packed).Should(BeClosed())
			Eventually(reset).Should(BeClosed())
			Expect(eng.Usable()).To(BeTrue())
			Expect(eng.Settings().BufferSize).To(Equal(4096))
		})

		It("Should allow unpacking while a pack is in flight", func() {
			Expect(New(settings, WithObserver(NopObserver())).PackSingle(filepath.Join(srcDir, "project"), target)).To(Succeed())

			packed := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(packed)
				Expect(eng.PackSingle(filepath.Join(srcDir, "project"), filepath.Join(tmpDir, "other.zip"))).To(Succeed())
			}()
			Eventually(blocker.started).Should(BeClosed())

			Expect(eng.Unpack(target, destDir)).To(Succeed())
			Expect(eng.Usable()).To(BeFalse())

			close(blocker.release)
			Eventually(packed).Should(BeClosed())
		})
	})
})
