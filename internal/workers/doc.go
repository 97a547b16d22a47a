/*
Package workers sizes worker pools for thumbnail batches and runs batches of
jobs on them.

# Sizing

Pool sizes start from runtime.GOMAXPROCS(0), not runtime.NumCPU(). Inside a
container with a 2-core quota on a 64-core node, NumCPU reports 64 while
GOMAXPROCS reports 2, and 64 decoders would only thrash the quota and the
memory limit.

The count is scaled by the Kind of job:

  - CPU (1 per CPU): bounded image decodes, color and palette extraction
  - IO (2 per CPU): FFmpeg frame grabs, where workers mostly wait on a
    subprocess
  - Mixed (1.5 per CPU): batches holding both

	numWorkers := workers.ForCPU(8)   // max 8 workers
	numWorkers := workers.For(workers.IO, 16)
	numWorkers := workers.Count(3.0, 24) // custom multiplier

A batch command knows its inputs up front, so ForBatch also classifies the
job Kind and never starts more workers than there are jobs:

	count := workers.ForBatch(workers.IO, len(videos), 8)

NOTETHUMBS_WORKERS pins the count for every function; the limit still
applies:

	NOTETHUMBS_WORKERS=4 notethumbs batch -o thumbs/ attachments/*

# Running a Batch

Run fans a slice of inputs out to a fixed number of goroutines over a job
channel and returns one Result per input, in input order:

	results := workers.Run(ctx, count, files,
		func(ctx context.Context, path string) (string, error) {
			return writeThumbnail(ctx, path)
		})

A failing job does not stop the others; its error is returned in its
Result. Cancelling ctx stops dispatch and marks the remaining inputs with
ctx.Err(). The BatchWorkers and BatchJobsInFlight gauges track the pool.

The sizing functions are safe for concurrent use. Run is safe as long as fn
is; each job writes only its own Result.
*/
package workers
