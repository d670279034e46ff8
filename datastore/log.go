package datastore

import (
	"k8s.io/klog"

	"github.com/andaru/yangdata/dom"
)

// logWarning reports a non-fatal decoding anomaly (an unrecognized
// attribute, a defaulted namespace, and the like) through klog rather
// than accumulating it as a DecodeError: these conditions never
// change the decode outcome, so they are diagnostic-only.
func logWarning(n dom.Node, format string, args ...interface{}) {
	klog.Warningf(format, args...)
}
