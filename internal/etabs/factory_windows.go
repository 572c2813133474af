//go:build windows

package etabs

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/alexiusacademia/etabsmc/internal/session"
)

// sFalse is returned by CoInitializeEx when the thread is already initialized.
const sFalse = 1

func (f *Factory) Attach(ctx context.Context) (session.Application, error) {
	return f.open(func() (*ole.IUnknown, error) {
		return oleutil.GetActiveObject(f.ProgID)
	}, nil)
}

func (f *Factory) Launch(ctx context.Context, visible bool) (session.Application, error) {
	return f.open(func() (*ole.IUnknown, error) {
		return oleutil.CreateObject(f.ProgID)
	}, func(obj *ole.IDispatch) error {
		if ret := callStatus(oleutil.CallMethod(obj, "ApplicationStart")); ret != session.StatusOK {
			return fmt.Errorf("ApplicationStart returned %d", ret)
		}
		if !visible {
			if ret := callStatus(oleutil.CallMethod(obj, "Hide")); ret != session.StatusOK {
				return fmt.Errorf("Hide returned %d", ret)
			}
		}
		return nil
	})
}

// open initializes COM on a locked OS thread, obtains the ETABSObject and its
// SapModel. On failure everything acquired so far is released.
func (f *Factory) open(get func() (*ole.IUnknown, error), start func(*ole.IDispatch) error) (app session.Application, err error) {
	runtime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("initialize COM: %w", err)
		}
	}

	a := &application{}
	defer func() {
		if err != nil {
			_ = a.Release()
		}
	}()

	unknown, err := get()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.ProgID, err)
	}
	a.obj, err = unknown.QueryInterface(ole.IID_IDispatch)
	unknown.Release()
	if err != nil {
		return nil, fmt.Errorf("%s: query IDispatch: %w", f.ProgID, err)
	}

	if start != nil {
		if err := start(a.obj); err != nil {
			return nil, err
		}
	}

	sap, err := oleutil.GetProperty(a.obj, "SapModel")
	if err != nil {
		return nil, fmt.Errorf("get SapModel: %w", err)
	}
	a.model = &model{sap: sap.ToIDispatch(), children: map[string]*ole.IDispatch{}}
	return a, nil
}

type application struct {
	obj      *ole.IDispatch
	model    *model
	released bool
}

func (a *application) Model() session.Engine {
	if a.model == nil {
		return nil
	}
	return a.model
}

func (a *application) Exit(save bool) int {
	if a.obj == nil {
		return statusCallFailed
	}
	return callStatus(oleutil.CallMethod(a.obj, "ApplicationExit", save))
}

// Release drops every COM reference, uninitializes COM and unlocks the thread.
// It must run on the goroutine that created the application.
func (a *application) Release() error {
	if a.released {
		return nil
	}
	a.released = true
	if a.model != nil {
		a.model.release()
	}
	if a.obj != nil {
		a.obj.Release()
	}
	ole.CoUninitialize()
	runtime.UnlockOSThread()
	return nil
}
