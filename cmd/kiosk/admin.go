package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/schollz/progressbar/v3"

	"campus-kiosk/internal/adapter/backend"
	"campus-kiosk/internal/domain"
	"campus-kiosk/internal/infra/logger"
	"campus-kiosk/internal/usecase"
)

type adminAction int

const (
	actionUpload adminAction = iota
	actionReset
	actionExport
)

// adminCommand is one data management subcommand.
type adminCommand struct {
	action adminAction
	upload domain.UploadKind
	reset  domain.ResetTarget
}

var adminCommands = map[string]adminCommand{
	"upload-locations": {action: actionUpload, upload: domain.UploadLocations},
	"upload-documents": {action: actionUpload, upload: domain.UploadDocuments},
	"reset-locations":  {action: actionReset, reset: domain.ResetLocations},
	"reset-documents":  {action: actionReset, reset: domain.ResetDocuments},
	"export":           {action: actionExport},
}

// confirmFunc asks the operator a yes/no question.
type confirmFunc func(question string) (bool, error)

// promptConfirm asks on the terminal. Answering no is not an error.
func promptConfirm(question string) (bool, error) {
	p := promptui.Prompt{Label: question, IsConfirm: true}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// adminRunner executes admin subcommands against an AdminService.
type adminRunner struct {
	svc         *usecase.AdminService
	out         io.Writer
	confirm     confirmFunc
	assumeYes   bool
	downloadDir string
	// progress builds the upload progress sink for total bytes.
	progress func(total int64) io.Writer
}

func runAdmin(cfgPath string, cmd adminCommand, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := backend.New(cfg.Backend, logger.Component(log, "backend"))
	r := adminRunner{
		svc:         usecase.NewAdminService(client, cfg.Admin.ExportFilename, nil, logger.Component(log, "admin")),
		out:         os.Stdout,
		confirm:     promptConfirm,
		assumeYes:   cfg.Admin.AssumeYes,
		downloadDir: cfg.Admin.DownloadDir,
		progress: func(total int64) io.Writer {
			return progressbar.DefaultBytes(total, usecase.MsgUploading)
		},
	}
	return r.run(ctx, cmd, args)
}

func (r adminRunner) run(ctx context.Context, cmd adminCommand, args []string) error {
	var rest []string
	for _, a := range args {
		if a == "-y" || a == "--yes" {
			r.assumeYes = true
			continue
		}
		rest = append(rest, a)
	}

	switch cmd.action {
	case actionUpload:
		return r.upload(ctx, cmd.upload, rest)
	case actionReset:
		return r.resetTarget(ctx, cmd.reset)
	case actionExport:
		dir := r.downloadDir
		if len(rest) > 0 {
			dir = rest[0]
		}
		return r.export(ctx, dir)
	default:
		return fmt.Errorf("unknown admin action %d", cmd.action)
	}
}

func (r adminRunner) upload(ctx context.Context, kind domain.UploadKind, paths []string) error {
	if len(paths) == 0 {
		fmt.Fprintln(r.out, usecase.MsgSelectFiles)
		return domain.ErrNoFiles
	}
	files, err := usecase.StatFiles(paths)
	if err != nil {
		fmt.Fprintln(r.out, usecase.UploadMessage(nil, err))
		return err
	}

	fmt.Fprintln(r.out, usecase.MsgUploading)
	var progress io.Writer
	if r.progress != nil {
		progress = r.progress(usecase.TotalSize(files))
	}
	res, err := r.svc.Upload(ctx, kind, files, progress)
	if progress != nil {
		fmt.Fprintln(r.out)
	}
	fmt.Fprintln(r.out, usecase.UploadMessage(res, err))
	return err
}

func (r adminRunner) resetTarget(ctx context.Context, target domain.ResetTarget) error {
	confirmed := r.assumeYes
	if !confirmed {
		ok, err := r.confirm(usecase.ResetPrompt(target))
		if err != nil {
			return fmt.Errorf("confirm: %w", err)
		}
		confirmed = ok
	}

	msg, err := r.svc.Reset(ctx, target, confirmed)
	if errors.Is(err, domain.ErrNotConfirmed) {
		fmt.Fprintln(r.out, "Cancelled.")
		return nil
	}
	fmt.Fprintln(r.out, msg)
	return err
}

func (r adminRunner) export(ctx context.Context, dir string) error {
	res, err := r.svc.Export(ctx, dir)
	if err != nil {
		fmt.Fprintln(r.out, usecase.MsgExportFailed)
		return err
	}
	fmt.Fprintf(r.out, "Saved %s (%d rows, %d bytes)\n", res.Path, res.Rows, res.Bytes)
	return nil
}
