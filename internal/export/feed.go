package export

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/you/myapp/busdelays/internal/schedule"
)

// BuildTripUpdates converts events into a GTFS-RT FeedMessage with one
// TripUpdate per trip and one StopTimeUpdate per stop visit.
// Events must be grouped by trip, as schedule.Generate emits them.
func BuildTripUpdates(events []schedule.TripEvent, generatedAt time.Time) *gtfs.FeedMessage {
	incrementality := gtfs.FeedHeader_FULL_DATASET
	feed := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      &incrementality,
			Timestamp:           proto.Uint64(uint64(generatedAt.Unix())),
		},
	}

	var current *gtfs.TripUpdate
	currentID := ""

	for _, e := range events {
		tripID := e.TripID()
		if current == nil || tripID != currentID {
			start := e.TripStart()
			relationship := gtfs.TripDescriptor_SCHEDULED
			current = &gtfs.TripUpdate{
				Trip: &gtfs.TripDescriptor{
					TripId:               proto.String(tripID),
					RouteId:              proto.String(string(e.Route)),
					StartDate:            proto.String(start.Format("20060102")),
					StartTime:            proto.String(start.Format("15:04:05")),
					ScheduleRelationship: &relationship,
				},
				Timestamp: proto.Uint64(uint64(generatedAt.Unix())),
			}
			currentID = tripID
			feed.Entity = append(feed.Entity, &gtfs.FeedEntity{
				Id:         proto.String(tripID),
				TripUpdate: current,
			})
		}

		current.StopTimeUpdate = append(current.StopTimeUpdate, &gtfs.TripUpdate_StopTimeUpdate{
			StopSequence: proto.Uint32(uint32(e.StopSequence)),
			StopId:       proto.String(string(e.Stop)),
			Arrival: &gtfs.TripUpdate_StopTimeEvent{
				Delay: proto.Int32(int32(math.Round(e.Actual.Sub(e.Scheduled).Seconds()))),
				Time:  proto.Int64(e.Actual.Unix()),
			},
		})
	}

	return feed
}

// EncodeTripUpdates writes the binary protobuf encoding of the feed
func EncodeTripUpdates(w io.Writer, events []schedule.TripEvent, generatedAt time.Time) error {
	data, err := proto.Marshal(BuildTripUpdates(events, generatedAt))
	if err != nil {
		return fmt.Errorf("failed to marshal trip updates: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write trip updates: %w", err)
	}
	return nil
}

// WriteTripUpdates exports the feed to path
func WriteTripUpdates(path string, events []schedule.TripEvent, generatedAt time.Time) error {
	return WriteAtomic(path, func(w io.Writer) error {
		return EncodeTripUpdates(w, events, generatedAt)
	})
}
