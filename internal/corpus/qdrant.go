package corpus

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/moolen/rfpagents/internal/logging"
)

const (
	payloadText      = "text"
	payloadDocID     = "doc_id"
	payloadChunkID   = "chunk_id"
	payloadIndex     = "chunk_index"
	payloadTitle     = "title"
	payloadSection   = "section"
	payloadSourceURI = "source_uri"
	payloadURL       = "url"
)

var waitTrue = true

// QdrantStore stores chunks in a Qdrant collection over gRPC. The collection
// is created with cosine distance on the first upsert, sized to the vectors
// being written.
type QdrantStore struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	logger      *logging.Logger

	mu         sync.Mutex
	vectorSize uint64
}

// NewQdrantStore connects to the Qdrant gRPC endpoint at addr.
func NewQdrantStore(ctx context.Context, addr, collection string) (*QdrantStore, error) {
	if collection == "" {
		return nil, fmt.Errorf("qdrant collection name is required")
	}
	addr = strings.TrimPrefix(strings.TrimPrefix(addr, "http://"), "https://")

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant at %s: %w", addr, err)
	}

	s := &QdrantStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
		logger:      logging.GetLogger("corpus.qdrant").WithField("collection", collection),
	}

	size, err := s.existingVectorSize(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}
	s.vectorSize = size
	return s, nil
}

// existingVectorSize returns 0 when the collection does not exist yet.
func (s *QdrantStore) existingVectorSize(ctx context.Context) (uint64, error) {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return 0, fmt.Errorf("failed to list qdrant collections: %w", err)
	}

	for _, c := range list.GetCollections() {
		if c.GetName() != s.collection {
			continue
		}
		info, err := s.collections.Get(ctx, &pb.GetCollectionInfoRequest{CollectionName: s.collection})
		if err != nil {
			return 0, fmt.Errorf("failed to describe qdrant collection: %w", err)
		}
		params := info.GetResult().GetConfig().GetParams().GetVectorsConfig().GetParams()
		if params == nil {
			return 0, fmt.Errorf("qdrant collection %s uses named vectors, which are not supported", s.collection)
		}
		return params.GetSize(), nil
	}
	return 0, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context, size uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vectorSize == size {
		return nil
	}
	if s.vectorSize != 0 {
		return fmt.Errorf("qdrant collection %s has vector size %d, got %d", s.collection, s.vectorSize, size)
	}

	_, err := s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     size,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create qdrant collection %s: %w", s.collection, err)
	}

	s.vectorSize = size
	s.logger.Info("Created qdrant collection with vector size %d", size)
	return nil
}

func (s *QdrantStore) Upsert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := s.ensureCollection(ctx, uint64(len(chunks[0].Vector))); err != nil {
		return err
	}

	points := make([]*pb.PointStruct, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Vector) == 0 {
			return fmt.Errorf("chunk %s has no vector", c.ID)
		}
		points = append(points, &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: pointID(c.ID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: c.Vector},
				},
			},
			Payload: chunkPayload(c),
		})
	}

	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
		Wait:           &waitTrue,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d points: %w", len(points), err)
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit int) ([]Match, error) {
	if limit <= 0 {
		return nil, nil
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	matches := make([]Match, 0, len(resp.GetResult()))
	for _, p := range resp.GetResult() {
		matches = append(matches, Match{
			Chunk: payloadChunk(p.GetPayload()),
			Score: float64(p.GetScore()),
		})
	}
	return matches, nil
}

func (s *QdrantStore) Close() error {
	return s.conn.Close()
}

// pointID derives a stable UUID so re-ingesting a file replaces its points.
func pointID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
}

func chunkPayload(c Chunk) map[string]*pb.Value {
	str := func(v string) *pb.Value {
		return &pb.Value{Kind: &pb.Value_StringValue{StringValue: v}}
	}
	return map[string]*pb.Value{
		payloadText:      str(c.Text),
		payloadDocID:     str(c.DocumentID),
		payloadChunkID:   str(c.ID),
		payloadIndex:     {Kind: &pb.Value_IntegerValue{IntegerValue: int64(c.Index)}},
		payloadTitle:     str(c.Title),
		payloadSection:   str(c.Section),
		payloadSourceURI: str(c.SourceURI),
		payloadURL:       str(c.URL),
	}
}

func payloadChunk(payload map[string]*pb.Value) Chunk {
	return Chunk{
		ID:         payload[payloadChunkID].GetStringValue(),
		DocumentID: payload[payloadDocID].GetStringValue(),
		Index:      int(payload[payloadIndex].GetIntegerValue()),
		Text:       payload[payloadText].GetStringValue(),
		Title:      payload[payloadTitle].GetStringValue(),
		Section:    payload[payloadSection].GetStringValue(),
		SourceURI:  payload[payloadSourceURI].GetStringValue(),
		URL:        payload[payloadURL].GetStringValue(),
	}
}
