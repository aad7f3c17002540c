package reentry

import (
	"fmt"
	"os"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// ExportConfig configures trajectory exports.
type ExportConfig struct {
	OutputPath string // destination directory
	Filename   string // base name, without extension
	Timestamp  bool   // append the creation time to the file name
}

func createTrajectoryFile(conf ExportConfig, start time.Time) (*os.File, error) {
	filename := fmt.Sprintf("%s/traj-%s.csv", conf.OutputPath, conf.Filename)
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/traj-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", conf.OutputPath, conf.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are <jd> <central> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a UTC Julian date
#   Position in km, relative to the central body
#   Velocity in km/sec
#   Propagation start (UTC): %s
jd,central,x,y,z,vx,vy,vz`, time.Now().UTC(), start.UTC()))
	return f, nil
}

// StreamTrajectory drains a trajectory channel into a CSV file, one record
// per sample. Samples are expressed in the frame of their segment's central
// body; a comment line marks each frame change. Superseded streams close
// without a terminal chunk, which is not an error here: the file simply holds
// the samples received so far. Returns the terminal error of the propagation,
// if any.
func StreamTrajectory(conf ExportConfig, start time.Time, chunks <-chan TrajectoryChunk) error {
	f, err := createTrajectoryFile(conf, start)
	if err != nil {
		return err
	}
	defer f.Close()

	var central BodyID
	var last time.Duration
	for chunk := range chunks {
		if chunk.Err != nil {
			f.WriteString(fmt.Sprintf("\n# Propagation aborted: %s\n", chunk.Err))
			return chunk.Err
		}
		for _, seg := range chunk.Segments {
			if seg.Central != central {
				f.WriteString(fmt.Sprintf("\n# Frame: %s", seg.Central))
				central = seg.Central
			}
			for _, s := range seg.Samples {
				last = s.Offset
				jd := julian.TimeToJD(start.Add(s.Offset))
				if _, err := f.WriteString(fmt.Sprintf("\n%f,%s,%f,%f,%f,%f,%f,%f", jd, s.Central, s.R[0], s.R[1], s.R[2], s.V[0], s.V[1], s.V[2])); err != nil {
					return err
				}
			}
		}
		if chunk.Done {
			f.WriteString(fmt.Sprintf("\n# Propagation end (UTC): %s\n", start.Add(last).UTC()))
		}
	}
	return nil
}
