package glm

// Mat4 is a 4x4 matrix in column major order, the layout wgsl expects
// for a mat4x4<f32> uniform.
type Mat4[T numeric] [16]T

// OrthographicMat4 maps the screen rectangle (0, 0) to (width, height),
// y pointing down, to clip space. The z coordinate is passed through.
func OrthographicMat4[T float](width, height T) Mat4[T] {
	return Mat4[T]{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, 1, 0,
		-1, 1, 0, 1,
	}
}
