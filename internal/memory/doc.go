// Package memory configures Go's soft memory limit for containerized runs.
//
// Unlike GOMAXPROCS, which Go derives from cgroup CPU limits, GOMEMLIMIT must
// be set explicitly. Bounded decoding keeps a single image cheap, but a batch
// run decodes several at once and libvips and FFmpeg allocate outside the Go
// heap, so the heap gets a share of the container limit and the rest is left
// for them.
//
// Call [ConfigureFromEnv] early in main, before significant allocations:
//
//	func main() {
//	    memory.ConfigureFromEnv()
//	    // ...
//	}
//
// # Environment Variables
//
//   - GOMEMLIMIT: standard Go variable. When set it wins and is only reported.
//
//   - MEMORY_LIMIT: container memory limit, as bytes or a Kubernetes quantity
//     ("512Mi", "2G"). Typically injected with the Downward API:
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
//
//   - MEMORY_RATIO: share of MEMORY_LIMIT for the Go heap, between 0.0 and
//     1.0. Default 0.85. Lower it when the vips decoder or video thumbnails
//     are in use.
//
// The effective limit is exported as the notethumbs_go_memlimit_bytes gauge.
package memory
